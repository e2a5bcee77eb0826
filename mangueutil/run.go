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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mangue"
	"github.com/spatialmodel/mangue/internal/hash"
	"github.com/spf13/cobra"
)

// Run runs the model with the settings in c.
//
// CobraCommand is the cobra.Command instance where Run is called from.
// Log messages are written to its output and to c.LogFile.
//
// The yearly results are written to c.OutputFile. If c.GridOutputDir
// is not empty, the final land-use, elevation and soil-class grids are
// written to that directory, and if c.PlotDir is not empty charts of the
// results are saved there. The simulation stops between years if the
// process is interrupted.
func Run(CobraCommand *cobra.Command, c *Config) error {
	startTime := time.Now()

	logfile, err := os.Create(c.LogFile)
	if err != nil {
		return fmt.Errorf("mangue: problem creating log file: %v", err)
	}
	defer logfile.Close()

	log := logrus.New()
	log.Out = io.MultiWriter(CobraCommand.OutOrStdout(), logfile)
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	log.Level = c.logLevel()

	log.WithFields(logrus.Fields{
		"land_use":  c.LandUseFile,
		"elevation": c.ElevationFile,
		"soil":      c.SoilFile,
	}).Info("loading grids")
	g, err := LoadGrid(c)
	if err != nil {
		return err
	}
	rows, cols := g.Dims()
	log.WithFields(logrus.Fields{"rows": rows, "cols": cols}).Debug("grid loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := mangue.NewModel(g, c.Params(), mangue.WithLogger(log), mangue.WithContext(ctx))
	m.CleanupFuncs = append(m.CleanupFuncs, Output(c.OutputFile, c.delimiter()))
	if c.GridOutputDir != "" {
		m.CleanupFuncs = append(m.CleanupFuncs, GridOutput(c.GridOutputDir, c.delimiter()))
	}
	if c.PlotDir != "" {
		m.CleanupFuncs = append(m.CleanupFuncs, Plots(c.PlotDir))
	}

	runLog := log.WithField("run_id", m.RunID)
	runLog.WithFields(logrus.Fields{
		"cell_area":           c.CellArea,
		"tide_height":         c.TideHeight,
		"sea_level_rise_rate": c.SeaLevelRiseRate,
		"final_time":          c.FinalTime,
		"input_hash":          hash.Inputs(c.Params(), g),
	}).Info("starting simulation")

	if err = m.Init(); err != nil {
		return err
	}
	if err = m.Run(); err != nil {
		runLog.WithError(err).Error("simulation failed")
		return err
	}

	runLog.WithField("accounting", m.Accounting.String()).Debug("final land use")
	runLog.WithFields(logrus.Fields{
		"output":   c.OutputFile,
		"walltime": time.Since(startTime).Round(time.Millisecond).String(),
	}).Info("simulation complete")
	return nil
}
