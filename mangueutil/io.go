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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spatialmodel/mangue"
	"gonum.org/v1/gonum/mat"
)

// ReadMatrix reads a matrix of numbers from r, where each line holds one
// matrix row and values are separated by delim. Lines starting with '#'
// are ignored. All rows must have the same number of values.
func ReadMatrix(r io.Reader, delim rune) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("mangue: reading matrix: %v", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("mangue: reading matrix: no data")
	}
	rows, cols := len(records), len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, rec := range records {
		for j, s := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("mangue: reading matrix: row %d, column %d: %v", i+1, j+1, err)
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

func readMatrixFile(path string, delim rune) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadMatrix(f, delim)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, path)
	}
	return m, nil
}

// LoadGrid reads the land-use, elevation and soil-class files named in c
// and creates a grid from them.
func LoadGrid(c *Config) (*mangue.Grid, error) {
	paths := []string{c.LandUseFile, c.ElevationFile, c.SoilFile}
	m := make([]*mat.Dense, len(paths))
	for i, p := range paths {
		var err error
		if m[i], err = readMatrixFile(p, c.delimiter()); err != nil {
			return nil, err
		}
	}
	return mangue.NewGrid(m[0], m[1], m[2])
}

// WriteMatrix writes m to w, one row per line, with values separated by
// delim.
func WriteMatrix(w io.Writer, m mat.Matrix, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	rows, cols := m.Dims()
	rec := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rec[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ResultColumns are the column headers of a results table.
var ResultColumns = []string{"year", "vegetated_ha", "flooded_vegetation_ha", "total_ha"}

// WriteResults writes the yearly results in rs to w as a table with a
// header line, with values separated by delim.
func WriteResults(w io.Writer, rs mangue.ResultSeries, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	if err := cw.Write(ResultColumns); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range rs {
		if err := cw.Write([]string{strconv.Itoa(r.Year), f(r.VegetatedArea),
			f(r.FloodedVegetationArea), f(r.TotalArea)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Output returns a function that writes the simulation results to
// outputFile. If outputFile has the extension ".xlsx" the results are
// written as an Excel workbook, otherwise as delimited text.
func Output(outputFile string, delim rune) mangue.DomainManipulator {
	return func(m *mangue.Model) error {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("mangue: creating output file: %v", err)
		}
		if strings.EqualFold(filepath.Ext(outputFile), ".xlsx") {
			err = WriteResultsXLSX(f, m.Results, m.Accounting)
		} else {
			err = WriteResults(f, m.Results, delim)
		}
		if err != nil {
			f.Close()
			return fmt.Errorf("mangue: writing output file: %v", err)
		}
		return f.Close()
	}
}

// GridOutput returns a function that writes the land-use, elevation and
// soil-class fields of the model grid to files in dir.
func GridOutput(dir string, delim rune) mangue.DomainManipulator {
	return func(m *mangue.Model) error {
		fields := []struct {
			name string
			m    mat.Matrix
		}{
			{"landuse.csv", m.Grid.LandUse()},
			{"elevation.csv", m.Grid.Elevation()},
			{"soil.csv", m.Grid.SoilClass()},
		}
		for _, fld := range fields {
			f, err := os.Create(filepath.Join(dir, fld.name))
			if err != nil {
				return fmt.Errorf("mangue: creating grid output file: %v", err)
			}
			if err = WriteMatrix(f, fld.m, delim); err != nil {
				f.Close()
				return fmt.Errorf("mangue: writing %s: %v", fld.name, err)
			}
			if err = f.Close(); err != nil {
				return err
			}
		}
		return nil
	}
}
