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
	"github.com/spf13/cobra"

	"github.com/clavel/gofea/elements"
	"github.com/clavel/gofea/instrument"
	"github.com/clavel/gofea/materials"
	"github.com/clavel/gofea/mesher"
	"github.com/clavel/gofea/sim"
	"github.com/clavel/gofea/utils"
)

type ThermalParameters struct {
	Title        string  `yaml:"Title"`
	Length       float64 `yaml:"Length"`
	Height       float64 `yaml:"Height"`
	Conductivity float64 `yaml:"Conductivity"`
	THot         float64 `yaml:"THot"`
	TCold        float64 `yaml:"TCold"`
	Source       float64 `yaml:"Source"`
	ElemSize     float64 `yaml:"ElemSize"`
	ElemType     string  `yaml:"ElemType"`
}

func (ip *ThermalParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *ThermalParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.3f x %8.3f\t= Length x Height\n", ip.Length, ip.Height)
	fmt.Printf("%8.3f\t\t= Conductivity\n", ip.Conductivity)
	fmt.Printf("%8.2f / %8.2f\t= THot / TCold\n", ip.THot, ip.TCold)
	fmt.Printf("%8.3f\t\t= Source\n", ip.Source)
	fmt.Printf("%8.3f [%s]\t= ElemSize [ElemType]\n", ip.ElemSize, ip.ElemType)
}

// ThermalCmd represents the thermal command
var ThermalCmd = &cobra.Command{
	Use:   "thermal",
	Short: "Steady conduction across a plate with held edge temperatures",
	Long:  `Steady conduction across a plate with held edge temperatures`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("thermal called")
		icFile, err := cmd.Flags().GetString("inputConditionsFile")
		if err != nil {
			panic(err)
		}
		RunThermal(processThermalInput(icFile))
	},
}

func init() {
	ThermalCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML case description")
}

func processThermalInput(icFile string) (ip *ThermalParameters) {
	ip = &ThermalParameters{
		Title:        "Plate conduction",
		Length:       2,
		Height:       1,
		Conductivity: 50,
		THot:         100,
		TCold:        20,
		ElemSize:     0.1,
		ElemType:     "QUAD4",
	}
	if len(icFile) != 0 {
		data, err := ioutil.ReadFile(icFile)
		if err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	}
	ip.Print()
	return
}

func RunThermal(ip *ThermalParameters) {
	et, err := elements.FromName(ip.ElemType)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	msh, err := mesher.Rectangle(ip.Length, ip.Height, ip.ElemSize, et)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Println(msh.Summary())

	mat, err := materials.NewThermal(ip.Conductivity, 0)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	s, err := sim.NewThermal(msh, mat)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	hot := msh.NodesWhere(func(x, y, z float64) bool { return x == 0 })
	cold := msh.NodesWhere(func(x, y, z float64) bool { return x == ip.Length })
	if err = s.FixTemperature(hot, ip.THot); err != nil {
		panic(err)
	}
	if err = s.FixTemperature(cold, ip.TCold); err != nil {
		panic(err)
	}
	if ip.Source != 0 {
		if err = s.AddVolumeSource(ip.Source); err != nil {
			panic(err)
		}
	}

	col := instrument.NewCollector()
	stop := col.Measure("solve")
	T, err := s.Solve()
	stop()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	Tv := utils.NewVector(len(T), T)
	fmt.Printf("T range         = [%8.3f, %8.3f]\n", Tv.Min(), Tv.Max())
	fmt.Print(col.Summary())
}
