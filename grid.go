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
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Field identifies one of the three co-registered grid fields.
type Field int

// Grid fields.
const (
	LandUseField Field = iota
	ElevationField
	SoilClassField
)

func (f Field) String() string {
	switch f {
	case LandUseField:
		return "LandUse"
	case ElevationField:
		return "Elevation"
	case SoilClassField:
		return "SoilClass"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// CellState holds the values of all fields at a single grid location.
type CellState struct {
	LandUse   LandUse
	Elevation float64 // [m]
	SoilClass SoilClass
}

// Cell is a view of one grid location as it was when it was visited.
type Cell struct {
	R, C     int
	Current  CellState
	Previous CellState
}

// layer holds one generation of the grid fields in row-major order.
type layer struct {
	landUse   []LandUse
	elevation []float64
	soil      []SoilClass
}

func newLayer(n int) layer {
	return layer{
		landUse:   make([]LandUse, n),
		elevation: make([]float64, n),
		soil:      make([]SoilClass, n),
	}
}

func (l *layer) copyFrom(o layer) {
	copy(l.landUse, o.landUse)
	copy(l.elevation, o.elevation)
	copy(l.soil, o.soil)
}

func (l layer) state(i int) CellState {
	return CellState{LandUse: l.landUse[i], Elevation: l.elevation[i], SoilClass: l.soil[i]}
}

// Grid is the spatial state of the simulation: land use, elevation and
// soil class for every cell, in a current generation that is mutated
// during a year and a previous generation frozen at the end of the prior
// year. The dimensions of a Grid never change.
type Grid struct {
	rows, cols int

	cur, prev layer
}

// NewGrid creates a grid from co-registered land-use, elevation and
// soil-class matrices. All three must have the same dimensions.
// Categorical values are truncated to integers. The previous generation
// starts out equal to the current one.
func NewGrid(landUse, elevation, soil mat.Matrix) (*Grid, error) {
	rows, cols := landUse.Dims()
	er, ec := elevation.Dims()
	sr, sc := soil.Dims()
	if er != rows || ec != cols || sr != rows || sc != cols {
		return nil, fmt.Errorf("mangue: land use is %dx%d, elevation is %dx%d, soil is %dx%d: %w",
			rows, cols, er, ec, sr, sc, ErrShapeMismatch)
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("mangue: grid is %dx%d: %w", rows, cols, ErrShapeMismatch)
	}
	g := &Grid{
		rows: rows,
		cols: cols,
		cur:  newLayer(rows * cols),
		prev: newLayer(rows * cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := g.index(r, c)
			u, e, s := landUse.At(r, c), elevation.At(r, c), soil.At(r, c)
			if !finite(e) {
				return nil, fmt.Errorf("mangue: elevation at (%d, %d) is %g: %w", r, c, e, ErrNonFinite)
			}
			if !finite(u) || !finite(s) {
				return nil, fmt.Errorf("mangue: land use %g or soil class %g at (%d, %d): %w",
					u, s, r, c, ErrNonFinite)
			}
			g.cur.landUse[i] = LandUse(int(u))
			g.cur.elevation[i] = e
			g.cur.soil[i] = SoilClass(int(s))
		}
	}
	g.prev.copyFrom(g.cur)
	return g, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Rows returns the number of grid rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g *Grid) Cols() int { return g.cols }

// Dims returns the number of rows and columns.
func (g *Grid) Dims() (rows, cols int) { return g.rows, g.cols }

func (g *Grid) index(r, c int) int { return r*g.cols + c }

func (g *Grid) inBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

func (g *Grid) check(r, c int) error {
	if !g.inBounds(r, c) {
		return fmt.Errorf("mangue: cell (%d, %d) outside %dx%d grid: %w", r, c, g.rows, g.cols, ErrOutOfBounds)
	}
	return nil
}

// Get returns the current values at row r, column c.
func (g *Grid) Get(r, c int) (CellState, error) {
	if err := g.check(r, c); err != nil {
		return CellState{}, err
	}
	return g.cur.state(g.index(r, c)), nil
}

// GetPrevious returns the values at row r, column c as of the end of the
// previous year.
func (g *Grid) GetPrevious(r, c int) (CellState, error) {
	if err := g.check(r, c); err != nil {
		return CellState{}, err
	}
	return g.prev.state(g.index(r, c)), nil
}

// SetLandUse sets the current land use at row r, column c.
func (g *Grid) SetLandUse(r, c int, u LandUse) error {
	if err := g.check(r, c); err != nil {
		return err
	}
	g.cur.landUse[g.index(r, c)] = u
	return nil
}

// SetElevation sets the current elevation at row r, column c.
func (g *Grid) SetElevation(r, c int, e float64) error {
	if err := g.check(r, c); err != nil {
		return err
	}
	g.cur.elevation[g.index(r, c)] = e
	return nil
}

// SetSoilClass sets the current soil class at row r, column c.
func (g *Grid) SetSoilClass(r, c int, s SoilClass) error {
	if err := g.check(r, c); err != nil {
		return err
	}
	g.cur.soil[g.index(r, c)] = s
	return nil
}

// Set writes one field of the current generation. Categorical fields
// are truncated to integers.
func (g *Grid) Set(r, c int, f Field, v float64) error {
	switch f {
	case LandUseField:
		return g.SetLandUse(r, c, LandUse(int(v)))
	case ElevationField:
		return g.SetElevation(r, c, v)
	case SoilClassField:
		return g.SetSoilClass(r, c, SoilClass(int(v)))
	}
	return fmt.Errorf("mangue: unknown grid field %v", f)
}

func (g *Grid) cell(r, c int) Cell {
	i := g.index(r, c)
	return Cell{R: r, C: c, Current: g.cur.state(i), Previous: g.prev.state(i)}
}

// ForEachCell calls visit once for every cell in row-major order. Each
// Cell is read immediately before visit is called, so it reflects any
// writes made by earlier visits. Iteration stops at the first error.
func (g *Grid) ForEachCell(visit func(Cell) error) error {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if err := visit(g.cell(r, c)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ForEachNeighbor calls visit for each cell in the Moore neighborhood of
// (r, c). Offsets are enumerated with the row offset in the outer loop
// and the column offset in the inner loop, each in the order -1, 0, 1.
// Cells outside the grid are skipped; the center is skipped unless
// includeSelf is true.
func (g *Grid) ForEachNeighbor(r, c int, includeSelf bool, visit func(Cell) error) error {
	if err := g.check(r, c); err != nil {
		return err
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 && !includeSelf {
				continue
			}
			nr, nc := r+dr, c+dc
			if !g.inBounds(nr, nc) {
				continue
			}
			if err := visit(g.cell(nr, nc)); err != nil {
				return err
			}
		}
	}
	return nil
}

// neighbors returns the Moore neighborhood of (r, c) in ForEachNeighbor
// order, read all at once.
func (g *Grid) neighbors(r, c int) ([]Cell, error) {
	o := make([]Cell, 0, 8)
	err := g.ForEachNeighbor(r, c, false, func(n Cell) error {
		o = append(o, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Synchronize copies the current generation into the previous one.
func (g *Grid) Synchronize() {
	g.prev.copyFrom(g.cur)
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	n := g.rows * g.cols
	o := &Grid{rows: g.rows, cols: g.cols, cur: newLayer(n), prev: newLayer(n)}
	o.cur.copyFrom(g.cur)
	o.prev.copyFrom(g.prev)
	return o
}

// LandUseValues returns a copy of the current land-use field in
// row-major order.
func (g *Grid) LandUseValues() []LandUse {
	o := make([]LandUse, len(g.cur.landUse))
	copy(o, g.cur.landUse)
	return o
}

// LandUse returns the current land-use field as a matrix.
func (g *Grid) LandUse() *mat.Dense {
	o := mat.NewDense(g.rows, g.cols, nil)
	for i, v := range g.cur.landUse {
		o.Set(i/g.cols, i%g.cols, float64(v))
	}
	return o
}

// Elevation returns the current elevation field [m] as a matrix.
func (g *Grid) Elevation() *mat.Dense {
	d := make([]float64, len(g.cur.elevation))
	copy(d, g.cur.elevation)
	return mat.NewDense(g.rows, g.cols, d)
}

// SoilClass returns the current soil-class field as a matrix.
func (g *Grid) SoilClass() *mat.Dense {
	o := mat.NewDense(g.rows, g.cols, nil)
	for i, v := range g.cur.soil {
		o.Set(i/g.cols, i%g.cols, float64(v))
	}
	return o
}
