/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/instrument"
	"github.com/clavel/gofea/materials"
	"github.com/clavel/gofea/mesher"
	"github.com/clavel/gofea/sim"
)

type CantileverParameters struct {
	Title     string  `yaml:"Title"`
	Length    float64 `yaml:"Length"`
	Height    float64 `yaml:"Height"`
	Thickness float64 `yaml:"Thickness"`
	E         float64 `yaml:"E"`
	Nu        float64 `yaml:"Nu"`
	Load      float64 `yaml:"Load"`
	ElemSize  float64 `yaml:"ElemSize"`
	ElemType  string  `yaml:"ElemType"`
}

func (ip *CantileverParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *CantileverParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.3f x %8.3f\t= Length x Height\n", ip.Length, ip.Height)
	fmt.Printf("%8.3f\t\t= Thickness\n", ip.Thickness)
	fmt.Printf("%8.1f / %5.3f\t= E / Nu\n", ip.E, ip.Nu)
	fmt.Printf("%8.3f\t\t= Load\n", ip.Load)
	fmt.Printf("%8.3f [%s]\t= ElemSize [ElemType]\n", ip.ElemSize, ip.ElemType)
}

// CantileverCmd represents the cantilever command
var CantileverCmd = &cobra.Command{
	Use:   "cantilever",
	Short: "End-loaded cantilever in plane stress, compared with beam theory",
	Long:  `End-loaded cantilever in plane stress, compared with beam theory`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("cantilever called")
		icFile, err := cmd.Flags().GetString("inputConditionsFile")
		if err != nil {
			panic(err)
		}
		ip := processCantileverInput(icFile)
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start().Stop()
		}
		counters, _ := cmd.Flags().GetBool("counters")
		RunCantilever(ip, counters)
	},
}

func init() {
	CantileverCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML case description")
	CantileverCmd.Flags().BoolP("counters", "C", false, "report hardware instruction/cycle counts for the solve (linux perf)")
}

func processCantileverInput(icFile string) (ip *CantileverParameters) {
	ip = &CantileverParameters{
		Title:     "Cantilever",
		Length:    120,
		Height:    13,
		Thickness: 13,
		E:         210000,
		Nu:        0.3,
		Load:      800,
		ElemSize:  3.25,
		ElemType:  "QUAD8",
	}
	if len(icFile) != 0 {
		var data []byte
		var err error
		if data, err = ioutil.ReadFile(icFile); err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	} else {
		exampleFile := `
########################################
Title: "Cantilever"
Length: 120
Height: 13
Thickness: 13
E: 210000
Nu: 0.3
Load: 800
ElemSize: 3.25
ElemType: QUAD8 # TRI3, TRI6, QUAD4, QUAD8
########################################
`
		fmt.Printf("using defaults, example file:%s\n", exampleFile)
	}
	ip.Print()
	return
}

func RunCantilever(ip *CantileverParameters, counters bool) {
	et, err := elements.FromName(ip.ElemType)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	var (
		col        = instrument.NewCollector()
		stop       = col.Measure("mesh")
		msh, mErr  = mesher.Rectangle(ip.Length, ip.Height, ip.ElemSize, et)
	)
	stop()
	if mErr != nil {
		fmt.Printf("error: %s\n", mErr.Error())
		os.Exit(1)
	}
	fmt.Println(msh.Summary())

	mat, err := materials.NewElasIsot(ip.E, ip.Nu)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	mat.PlaneStress = true
	mat.Thickness = ip.Thickness

	s, err := sim.NewDisplacement(msh, mat)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	left := msh.NodesWhere(func(x, y, z float64) bool { return x == 0 })
	right := msh.NodesWhere(func(x, y, z float64) bool { return x == ip.Length })
	if err = s.Clamp(left); err != nil {
		panic(err)
	}
	if err = s.AddLineLoad(right, 1, -ip.Load/ip.Height); err != nil {
		panic(err)
	}

	var u []float64
	stop = col.Measure("solve")
	if counters {
		// CountHardware runs the solve once per counter; the last
		// result is kept
		hw, hwErr := instrument.CountHardware(func() {
			u, err = s.Solve()
		})
		if hwErr != nil {
			fmt.Printf("hardware counters unavailable: %s\n", hwErr.Error())
		} else {
			fmt.Printf("instructions    = %d\n", hw.Instructions)
			fmt.Printf("cycles          = %d\n", hw.Cycles)
		}
		if u == nil && err == nil {
			u, err = s.Solve()
		}
	} else {
		u, err = s.Solve()
	}
	stop()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	var tip float64
	for _, n := range right {
		if v := -u[2*n+1]; v > tip {
			tip = v
		}
	}
	var (
		inertia = ip.Thickness * ip.Height * ip.Height * ip.Height / 12
		theory  = ip.Load * ip.Length * ip.Length * ip.Length / (3 * ip.E * inertia)
	)
	fmt.Printf("tip deflection  = %10.6f\n", tip)
	fmt.Printf("beam theory     = %10.6f\n", theory)
	fmt.Printf("deviation       = %8.3f%%\n", 100*(tip-theory)/theory)
	fmt.Print(col.Summary())
}
