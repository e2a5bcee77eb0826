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
	"image/color"
	"path/filepath"

	"github.com/spatialmodel/mangue"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	figWidth  = 7 * vg.Inch
	figHeight = 4 * vg.Inch
)

// AreaPlot returns a line chart of vegetated and flooded vegetation area
// against simulation year.
func AreaPlot(rs mangue.ResultSeries) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Vegetation area"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Area (ha)"

	veg := make(plotter.XYs, len(rs))
	flooded := make(plotter.XYs, len(rs))
	for i, r := range rs {
		veg[i] = plotter.XY{X: float64(r.Year), Y: r.VegetatedArea}
		flooded[i] = plotter.XY{X: float64(r.Year), Y: r.FloodedVegetationArea}
	}
	series := []struct {
		name string
		xy   plotter.XYs
		c    color.Color
	}{
		{"Terrestrial vegetation", veg, color.RGBA{G: 128, A: 255}},
		{"Flooded vegetation", flooded, color.RGBA{R: 200, A: 255}},
	}
	for _, s := range series {
		l, err := plotter.NewLine(s.xy)
		if err != nil {
			return nil, fmt.Errorf("mangue: plotting %s: %v", s.name, err)
		}
		l.Color = s.c
		l.Width = vg.Points(1)
		p.Add(l)
		p.Legend.Add(s.name, l)
	}
	p.Legend.Top = true
	return p, nil
}

// gridXYZ presents a matrix as a plotter.GridXYZ with row 0 at the top.
type gridXYZ struct {
	m mat.Matrix
}

func (g gridXYZ) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g gridXYZ) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g gridXYZ) X(c int) float64 { return float64(c) }
func (g gridXYZ) Y(r int) float64 { return float64(r) }

// MapPlot returns a heat map of m titled title. If lo < hi, the color
// scale is fixed to that range; otherwise it spans the values in m.
func MapPlot(m mat.Matrix, title string, pal palette.Palette, lo, hi float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	if !(lo < hi) {
		lo, hi = mat.Min(m), mat.Max(m)
		if lo == hi {
			hi = lo + 1
		}
	}
	h := plotter.NewHeatMap(gridXYZ{m: m}, pal)
	h.Min, h.Max = lo, hi
	p.Add(h)
	return p
}

// Plots returns a function that saves a chart of the yearly results and
// maps of the final land use and elevation to PNG files in dir.
func Plots(dir string) mangue.DomainManipulator {
	return func(m *mangue.Model) error {
		area, err := AreaPlot(m.Results)
		if err != nil {
			return err
		}
		n := len(mangue.LandUses)
		plots := []struct {
			name string
			p    *plot.Plot
		}{
			{"areas.png", area},
			{"landuse.png", MapPlot(m.Grid.LandUse(), "Land use",
				palette.Rainbow(n, palette.Blue, palette.Red, 1, 1, 1),
				float64(mangue.LandUses[0]), float64(mangue.LandUses[n-1]))},
			{"elevation.png", MapPlot(m.Grid.Elevation(), "Elevation (m)", palette.Heat(12, 1), 0, 0)},
		}
		for _, pl := range plots {
			if err := pl.p.Save(figWidth, figHeight, filepath.Join(dir, pl.name)); err != nil {
				return fmt.Errorf("mangue: saving %s: %v", pl.name, err)
			}
		}
		return nil
	}
}
