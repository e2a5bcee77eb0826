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

package mangue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AdvanceYear returns a function that increments the simulation year.
func AdvanceYear() DomainManipulator {
	return func(m *Model) error {
		m.Year++
		return nil
	}
}

// Calculations returns a function that applies each of the calculators,
// in order, to every grid cell in row-major order. Cells are updated in
// place, so a cell sees the writes made by cells visited before it.
func Calculations(calculators ...CellManipulator) DomainManipulator {
	return func(m *Model) error {
		for _, f := range calculators {
			err := m.Grid.ForEachCell(func(c Cell) error {
				return f(m.Grid, c, m.Year, m.Params)
			})
			if err != nil {
				return fmt.Errorf("mangue: year %d: %w", m.Year, err)
			}
		}
		return nil
	}
}

// Synchronize returns a function that copies the current generation of
// the grid into the previous one. It must run exactly once per year,
// after all transition rules.
func Synchronize() DomainManipulator {
	return func(m *Model) error {
		m.Grid.Synchronize()
		return nil
	}
}

// Account returns a function that computes the land-use accounting for
// the current year and appends a summary to the result series.
func Account() DomainManipulator {
	return func(m *Model) error {
		m.Accounting = Accumulate(m.Grid.cur.landUse, m.Params.CellArea)
		m.Results = append(m.Results, newYearResult(m.Year, m.Accounting))
		return nil
	}
}

// YearLimit returns a function that marks the simulation as finished
// once the final year has been simulated.
func YearLimit(finalTime int) DomainManipulator {
	return func(m *Model) error {
		if m.Year >= finalTime {
			m.Done = true
		}
		return nil
	}
}

// CheckContext returns a function that stops the simulation with an
// error if ctx has been canceled. It should be the first of the run
// functions so that cancellation only happens between years.
func CheckContext(ctx context.Context) DomainManipulator {
	return func(m *Model) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("mangue: stopped before year %d: %w", m.Year+1, err)
		}
		return nil
	}
}

// OnYear returns a function that calls f with the year just completed
// and its full land-use accounting.
func OnYear(f func(year int, a AccountingRecord)) DomainManipulator {
	return func(m *Model) error {
		f(m.Year, m.Accounting)
		return nil
	}
}

// Log returns a function that writes simulation status messages to m.Log.
func Log() DomainManipulator {
	var yearTime time.Time
	return func(m *Model) error {
		if yearTime.Before(m.started) {
			yearTime = m.started
		}
		var last YearResult
		if len(m.Results) > 0 {
			last = m.Results[len(m.Results)-1]
		}
		m.Log.WithFields(logrus.Fields{
			"run_id":                m.RunID,
			"year":                  m.Year,
			"vegetated_ha":          last.VegetatedArea,
			"flooded_vegetation_ha": last.FloodedVegetationArea,
			"total_ha":              last.TotalArea,
			"walltime":              time.Since(m.started).Round(time.Millisecond).String(),
			"Δwalltime":             time.Since(yearTime).Round(time.Millisecond).String(),
		}).Info("year complete")
		yearTime = time.Now()
		return nil
	}
}

// ModelOption customizes a model created by NewModel.
type ModelOption func(*Model)

// WithLogger sets the logger that receives status messages.
func WithLogger(l logrus.FieldLogger) ModelOption {
	return func(m *Model) { m.Log = l }
}

// WithContext makes the simulation stop between years when ctx is
// canceled.
func WithContext(ctx context.Context) ModelOption {
	return func(m *Model) {
		m.RunFuncs = append([]DomainManipulator{CheckContext(ctx)}, m.RunFuncs...)
	}
}

// WithRunFuncs appends additional functions to be run at the end of
// every year.
func WithRunFuncs(f ...DomainManipulator) ModelOption {
	return func(m *Model) { m.RunFuncs = append(m.RunFuncs, f...) }
}

// NewModel returns a model that simulates p.FinalTime years on g.
// Each year it propagates flooding, then mangrove dynamics, then
// synchronizes the grid generations and records the land-use accounting.
func NewModel(g *Grid, p Params, opts ...ModelOption) *Model {
	m := &Model{
		Grid:   g,
		Params: p,
		RunID:  uuid.New().String(),
		RunFuncs: []DomainManipulator{
			AdvanceYear(),
			Calculations(FloodPropagation()),
			Calculations(MangroveDynamics()),
			Synchronize(),
			Account(),
			YearLimit(p.FinalTime),
		},
	}
	for _, o := range opts {
		o(m)
	}
	m.RunFuncs = append(m.RunFuncs, Log())
	return m
}

// Simulate runs a complete simulation on g and returns the yearly
// results. On return g holds the final state. Callers that need the full
// accounting of the final year should build the model with NewModel and
// read Model.Accounting after Run.
func Simulate(ctx context.Context, g *Grid, p Params, log logrus.FieldLogger) (ResultSeries, error) {
	m := NewModel(g, p, WithContext(ctx), WithLogger(log))
	if err := m.Init(); err != nil {
		return nil, err
	}
	if err := m.Run(); err != nil {
		return m.Results, err
	}
	return m.Results, nil
}
