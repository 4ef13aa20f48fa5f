package main

import "github.com/clavel/gofea/cmd"

func main() {
	cmd.Execute()
}
