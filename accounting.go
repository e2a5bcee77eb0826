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
	"strings"

	"gonum.org/v1/gonum/floats"
)

// AccountingRecord holds the area [ha] covered by each land-use class.
type AccountingRecord struct {
	Area  map[LandUse]float64
	Total float64 // sum of the class areas
}

// Accumulate computes the area covered by each land-use class, given the
// land use of every cell and the area of a single cell [ha]. Values that
// are not recognized land-use classes are ignored.
func Accumulate(landUse []LandUse, cellArea float64) AccountingRecord {
	counts := make(map[LandUse]int, len(LandUses))
	for _, u := range landUse {
		if u.Valid() {
			counts[u]++
		}
	}
	rec := AccountingRecord{Area: make(map[LandUse]float64, len(LandUses))}
	areas := make([]float64, len(LandUses))
	for i, u := range LandUses {
		areas[i] = float64(counts[u]) * cellArea
		rec.Area[u] = areas[i]
	}
	rec.Total = floats.Sum(areas)
	return rec
}

// Get returns the area [ha] covered by class u.
func (a AccountingRecord) Get(u LandUse) float64 { return a.Area[u] }

func (a AccountingRecord) String() string {
	var b strings.Builder
	for _, u := range LandUses {
		fmt.Fprintf(&b, "%s=%g ", u, a.Area[u])
	}
	fmt.Fprintf(&b, "Total=%g", a.Total)
	return b.String()
}

// YearResult summarizes the land-use accounting at the end of a year.
type YearResult struct {
	Year                  int
	VegetatedArea         float64 // terrestrial vegetation [ha]
	FloodedVegetationArea float64 // flooded terrestrial vegetation [ha]
	TotalArea             float64 // all classified cells [ha]
}

// ResultSeries is the sequence of yearly results of a simulation.
type ResultSeries []YearResult

func newYearResult(year int, a AccountingRecord) YearResult {
	return YearResult{
		Year:                  year,
		VegetatedArea:         a.Area[TerrestrialVegetation],
		FloodedVegetationArea: a.Area[TerrestrialVegetationFlooded],
		TotalArea:             a.Total,
	}
}
