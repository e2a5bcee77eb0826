/*
Copyright © 2025 the BR-Mangue authors.
This file is part of BR-Mangue.

BR-Mangue is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

BR-Mangue is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with BR-Mangue.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package mangueutil provides the command-line interface to the BR-Mangue
// model.
package mangueutil

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/mangue"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to BR-Mangue.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LandUseFile",
			usage: `
              LandUseFile is the path to a delimited text file holding the
              land-use class code of every grid cell, one grid row per line.
              The path can include environment variables.`,
			defaultVal: "${GOPATH}/src/github.com/spatialmodel/mangue/mangueutil/testdata/landuse.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "ElevationFile",
			usage: `
              ElevationFile is the path to a delimited text file holding the
              elevation [m] of every grid cell. It must have the same
              dimensions as LandUseFile. The path can include environment variables.`,
			defaultVal: "${GOPATH}/src/github.com/spatialmodel/mangue/mangueutil/testdata/elevation.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "SoilFile",
			usage: `
              SoilFile is the path to a delimited text file holding the soil
              class code of every grid cell. It must have the same dimensions
              as LandUseFile. The path can include environment variables.`,
			defaultVal: "${GOPATH}/src/github.com/spatialmodel/mangue/mangueutil/testdata/soil.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Delimiter",
			usage: `
              Delimiter is the single character separating values in the
              input and output files.`,
			defaultVal: ",",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "CellArea",
			usage: `
              CellArea is the area of a single grid cell in hectares.`,
			defaultVal: mangue.DefaultParams.CellArea,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "TideHeight",
			usage: `
              TideHeight is the height of the highest tide [m] at the start
              of the simulation.`,
			defaultVal: mangue.DefaultParams.TideHeight,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "SeaLevelRiseRate",
			usage: `
              SeaLevelRiseRate is the rate of sea-level rise [m/year].`,
			defaultVal: mangue.DefaultParams.SeaLevelRiseRate,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "FinalTime",
			usage: `
              FinalTime is the number of years to simulate.`,
			shorthand:  "n",
			defaultVal: mangue.DefaultParams.FinalTime,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired location of the yearly
              results table. If it ends in '.xlsx' the results are written as
              an Excel workbook, otherwise as delimited text. It can include
              environment variables.`,
			shorthand:  "o",
			defaultVal: "mangue_results.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "GridOutputDir",
			usage: `
              GridOutputDir is the directory where the final land-use,
              elevation and soil-class grids should be written. If it is left
              blank, the final grids are not written. It can include
              environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "PlotDir",
			usage: `
              PlotDir is the directory where charts of the yearly results and
              maps of the final land use and elevation should be saved as PNG
              images. If it is left blank, no charts are made. It can include
              environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages to be written.
              Acceptable values are 'debug', 'info', 'warning' and 'error'.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MANGUE")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(configCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("mangue: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "mangue",
	Short: "A cellular automaton model of mangrove migration under sea-level rise.",
	Long: `BR-Mangue simulates, year by year, how a coastal mangrove landscape responds
to sea-level rise: sea water floods low-lying cells, mangrove migrates into
neighboring vegetation and bare soil, and mangrove soils accrete sediment.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'MANGUE_var' where 'var' is the
name of the variable to be set. File paths are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of BR-Mangue.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "BR-Mangue v%s\n", mangue.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a simulation.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run runs a BR-Mangue simulation for FinalTime years and writes the yearly
land-use areas to OutputFile and, optionally, the final grids to GridOutputDir
and charts to PlotDir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		if err = c.checkFiles(); err != nil {
			return err
		}
		return Run(cmd, c)
	},
	DisableAutoGenTag: true,
}

// configCmd is a command that prints the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration.",
	Long: `config prints the configuration that would be used by 'run', after
combining defaults, the configuration file, environment variables and
command-line arguments. The output is in TOML format and can be used
as a configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(c)
	},
	DisableAutoGenTag: true,
}
