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

// Package mangue is a cellular automaton model of coastal mangrove
// landscapes under sea-level rise. Each simulated year, sea water
// propagates from inundated cells to lower neighbors, mangrove colonizes
// adjacent low-lying vegetation and bare soil, and mangrove soils accrete
// sediment.
package mangue

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Version gives the version number.
const Version = "2.1.0"

var (
	// ErrShapeMismatch is returned when input grids do not share dimensions.
	ErrShapeMismatch = errors.New("grid shape mismatch")

	// ErrInvalidParameter is returned when a simulation parameter is
	// outside of its allowed range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrOutOfBounds is returned when a cell outside the grid is addressed.
	ErrOutOfBounds = errors.New("cell out of bounds")

	// ErrNonFinite is returned when an input grid holds NaN or infinite values.
	ErrNonFinite = errors.New("non-finite grid value")
)

// Params holds the scalar parameters of a simulation.
type Params struct {
	CellArea         float64 // area of a grid cell [ha]
	TideHeight       float64 // [m]
	SeaLevelRiseRate float64 // [m/year]
	FinalTime        int     // number of years to simulate
}

// DefaultParams are the parameters of the reference BR-Mangue setup.
var DefaultParams = Params{
	CellArea:         0.09,
	TideHeight:       6,
	SeaLevelRiseRate: 0.5,
	FinalTime:        100,
}

// Validate checks that p is within its allowed ranges.
func (p Params) Validate() error {
	switch {
	case !(p.CellArea > 0) || math.IsInf(p.CellArea, 0):
		return fmt.Errorf("mangue: CellArea=%g but should be >0: %w", p.CellArea, ErrInvalidParameter)
	case !(p.TideHeight >= 0) || math.IsInf(p.TideHeight, 0):
		return fmt.Errorf("mangue: TideHeight=%g but should be >=0: %w", p.TideHeight, ErrInvalidParameter)
	case !(p.SeaLevelRiseRate >= 0) || math.IsInf(p.SeaLevelRiseRate, 0):
		return fmt.Errorf("mangue: SeaLevelRiseRate=%g but should be >=0: %w", p.SeaLevelRiseRate, ErrInvalidParameter)
	case p.FinalTime < 1:
		return fmt.Errorf("mangue: FinalTime=%d but should be >=1: %w", p.FinalTime, ErrInvalidParameter)
	}
	return nil
}

// State is the lifecycle stage of a Model.
type State int

// Model states.
const (
	Idle State = iota
	Running
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Complete:
		return "Complete"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Model holds the current state of a simulation.
type Model struct {
	// InitFuncs are functions to be called in the given order
	// at the beginning of the simulation.
	InitFuncs []DomainManipulator

	// RunFuncs are functions to be called in the given order repeatedly
	// until "Done" is true. One pass through RunFuncs simulates one year.
	RunFuncs []DomainManipulator

	// CleanupFuncs are functions to be called in the given order
	// after the simulation has completed.
	CleanupFuncs []DomainManipulator

	Grid   *Grid
	Params Params

	// Year is the year currently being simulated, starting at 1.
	Year int

	// Accounting is the land-use accounting at the end of the most
	// recently completed year.
	Accounting AccountingRecord

	// Results holds one entry per completed year.
	Results ResultSeries

	// RunID identifies this simulation in log output.
	RunID string

	// Log receives simulation status messages. If nil, the
	// standard logrus logger is used.
	Log logrus.FieldLogger

	// Done is set to true when the simulation is finished.
	Done bool

	State State

	// initialized is set once Init has succeeded.
	initialized bool

	// started is when Run began.
	started time.Time
}

// DomainManipulator is a class of functions that operate on the entire
// model domain.
type DomainManipulator func(m *Model) error

// CellManipulator is a class of functions that operate on a single grid
// cell during the given year.
type CellManipulator func(g *Grid, c Cell, year int, p Params) error

// Init initializes the simulation by running m.InitFuncs.
func (m *Model) Init() error {
	if err := m.Params.Validate(); err != nil {
		m.State = Failed
		return err
	}
	if m.Grid == nil {
		m.State = Failed
		return fmt.Errorf("mangue: model has no grid")
	}
	if m.Log == nil {
		m.Log = logrus.StandardLogger()
	}
	for _, f := range m.InitFuncs {
		if err := f(m); err != nil {
			m.State = Failed
			return err
		}
	}
	m.initialized = true
	return nil
}

// Run carries out the simulation by running m.RunFuncs until m.Done is
// true, and then runs m.CleanupFuncs. Any error aborts the simulation
// and leaves the grid in whatever state it was in. Init must have
// succeeded first.
func (m *Model) Run() error {
	if m.State != Idle {
		return fmt.Errorf("mangue: cannot run model in state %v", m.State)
	}
	if !m.initialized {
		return fmt.Errorf("mangue: model has not been initialized")
	}
	if len(m.RunFuncs) == 0 {
		return fmt.Errorf("mangue: model has no run functions")
	}
	if m.Log == nil {
		m.Log = logrus.StandardLogger()
	}
	m.State = Running
	m.started = time.Now()
	for !m.Done {
		for _, f := range m.RunFuncs {
			if err := f(m); err != nil {
				m.State = Failed
				return err
			}
		}
	}
	for _, f := range m.CleanupFuncs {
		if err := f(m); err != nil {
			m.State = Failed
			return err
		}
	}
	m.State = Complete
	return nil
}
