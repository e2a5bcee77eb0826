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

package mangueutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mangue"
	"github.com/spf13/cast"
)

// Config holds the settings of a simulation run. Field names match the
// configuration option names.
type Config struct {
	LandUseFile   string
	ElevationFile string
	SoilFile      string
	Delimiter     string

	CellArea         float64
	TideHeight       float64
	SeaLevelRiseRate float64
	FinalTime        int

	OutputFile    string
	GridOutputDir string
	PlotDir       string
	LogFile       string
	LogLevel      string
}

// LoadConfig reads a run configuration from cfg, expanding environment
// variables in file paths and checking that the model parameters are
// valid.
func LoadConfig(cfg *viper.Viper) (*Config, error) {
	c := &Config{
		LandUseFile:   os.ExpandEnv(cfg.GetString("LandUseFile")),
		ElevationFile: os.ExpandEnv(cfg.GetString("ElevationFile")),
		SoilFile:      os.ExpandEnv(cfg.GetString("SoilFile")),
		Delimiter:     cfg.GetString("Delimiter"),
		GridOutputDir: os.ExpandEnv(cfg.GetString("GridOutputDir")),
		PlotDir:       os.ExpandEnv(cfg.GetString("PlotDir")),
		LogLevel:      strings.ToLower(os.ExpandEnv(cfg.GetString("LogLevel"))),
	}

	var err error
	floatVars := []struct {
		name string
		v    *float64
	}{
		{"CellArea", &c.CellArea},
		{"TideHeight", &c.TideHeight},
		{"SeaLevelRiseRate", &c.SeaLevelRiseRate},
	}
	for _, fv := range floatVars {
		if *fv.v, err = cast.ToFloat64E(cfg.Get(fv.name)); err != nil {
			return nil, fmt.Errorf("mangue: parsing config variable %s: %v", fv.name, err)
		}
	}
	if c.FinalTime, err = cast.ToIntE(cfg.Get("FinalTime")); err != nil {
		return nil, fmt.Errorf("mangue: parsing config variable FinalTime: %v", err)
	}
	if err = c.Params().Validate(); err != nil {
		return nil, err
	}

	if c.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	c.LogFile = checkLogFile(os.ExpandEnv(cfg.GetString("LogFile")), c.OutputFile)
	if _, err = checkDelimiter(c.Delimiter); err != nil {
		return nil, err
	}
	if _, err = logrus.ParseLevel(c.LogLevel); err != nil {
		return nil, fmt.Errorf("mangue: invalid LogLevel: %v", err)
	}
	return c, nil
}

// Params returns the model parameters in c.
func (c *Config) Params() mangue.Params {
	return mangue.Params{
		CellArea:         c.CellArea,
		TideHeight:       c.TideHeight,
		SeaLevelRiseRate: c.SeaLevelRiseRate,
		FinalTime:        c.FinalTime,
	}
}

func (c *Config) delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

func (c *Config) logLevel() logrus.Level {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

// checkFiles makes sure that the input files exist and that the output
// directories exist.
func (c *Config) checkFiles() error {
	inputs := []struct{ name, path string }{
		{"LandUseFile", c.LandUseFile},
		{"ElevationFile", c.ElevationFile},
		{"SoilFile", c.SoilFile},
	}
	for _, f := range inputs {
		if f.path == "" {
			return fmt.Errorf("mangue: you need to specify the %s configuration variable", f.name)
		}
		if _, err := os.Stat(f.path); err != nil {
			return fmt.Errorf("mangue: problem with %s: %v", f.name, err)
		}
	}
	if _, err := os.Stat(filepath.Dir(c.OutputFile)); err != nil {
		return fmt.Errorf("mangue: the OutputFile directory doesn't exist: %v", err)
	}
	for _, d := range []struct{ name, path string }{
		{"GridOutputDir", c.GridOutputDir},
		{"PlotDir", c.PlotDir},
	} {
		if d.path == "" {
			continue
		}
		if err := os.MkdirAll(d.path, 0755); err != nil {
			return fmt.Errorf("mangue: creating %s: %v", d.name, err)
		}
	}
	return nil
}

// checkOutputFile makes sure that the output file is specified and
// expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="results.csv")`)
	}
	return os.ExpandEnv(f), nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// checkDelimiter ensures that the delimiter is a single character that
// can separate numeric values.
func checkDelimiter(d string) (rune, error) {
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("the Delimiter configuration variable needs to be a single character, but is currently set to `%s`", d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '\r' || r == '\n' || r == '"' || r == '#' || r == '.' || r == '-' || r == '+' || r == utf8.RuneError ||
		(r >= '0' && r <= '9') {
		return 0, fmt.Errorf("the Delimiter configuration variable cannot be set to %q", r)
	}
	return r, nil
}
