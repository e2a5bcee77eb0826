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
	"math"
	"testing"
)

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance || math.IsNaN(a) || math.IsNaN(b)
}

// applyRule runs a single pass of rule over g for the given year.
func applyRule(t *testing.T, g *Grid, rule CellManipulator, year int, p Params) {
	t.Helper()
	m := &Model{Grid: g, Params: p, Year: year}
	if err := Calculations(rule)(m); err != nil {
		t.Fatal(err)
	}
}

func TestAccretionRate(t *testing.T) {
	const tolerance = 1e-12
	tests := []struct {
		year int
		rate float64
		want float64 // [m/year]
	}{
		{year: 1, rate: 0, want: 0.001693},
		{year: 1, rate: 0.5, want: 0.471193},
		{year: 10, rate: 0.005, want: (1.693 + 0.939*50) / 1000},
	}
	for _, test := range tests {
		if have := AccretionRate(test.year, test.rate); absDifferent(have, test.want, tolerance) {
			t.Errorf("AccretionRate(%d, %g) = %g, want %g", test.year, test.rate, have, test.want)
		}
	}
	p := Params{TideHeight: 6, SeaLevelRiseRate: 0.5}
	if z := TidalInfluenceZone(3, p); absDifferent(z, 7.5, tolerance) {
		t.Errorf("TidalInfluenceZone = %g, want 7.5", z)
	}
}

// A single sea cell surrounded by lower land shares the yearly rise
// equally with all eight neighbors and floods them.
func TestFloodPropagation_isolatedTrigger(t *testing.T) {
	const tolerance = 1e-12
	lu := fill(3, 3, float64(TerrestrialVegetation))
	lu.Set(0, 0, float64(Mangrove))
	lu.Set(2, 1, float64(BareSoil))
	lu.Set(1, 1, float64(Sea))
	el := fill(3, 3, 0)
	el.Set(1, 1, 1)
	g := newTestGrid(t, lu, el, fill(3, 3, 5))
	p := Params{CellArea: 1, SeaLevelRiseRate: 0.9, FinalTime: 1}

	applyRule(t, g, FloodPropagation(), 1, p)

	flow := p.SeaLevelRiseRate / 9
	var added float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			cur, _ := g.Get(r, c)
			prev, _ := g.GetPrevious(r, c)
			dz := cur.Elevation - prev.Elevation
			added += dz
			if absDifferent(dz, flow, tolerance) {
				t.Errorf("(%d, %d): elevation change %g, want %g", r, c, dz, flow)
			}
			if r == 1 && c == 1 {
				if cur.LandUse != Sea {
					t.Errorf("trigger cell land use changed to %v", cur.LandUse)
				}
				continue
			}
			if cur.LandUse != prev.LandUse.Flooded() {
				t.Errorf("(%d, %d): land use %v, want %v", r, c, cur.LandUse, prev.LandUse.Flooded())
			}
		}
	}
	if absDifferent(added, p.SeaLevelRiseRate, tolerance) {
		t.Errorf("total elevation added = %g, want %g", added, p.SeaLevelRiseRate)
	}
}

func TestFloodPropagation_onlyLowerNeighbors(t *testing.T) {
	const tolerance = 1e-12
	lu := dense([][]float64{{2, 3, 2}})
	el := dense([][]float64{{0, 1, 1}})
	g := newTestGrid(t, lu, el, fill(1, 3, 5))
	p := Params{CellArea: 1, SeaLevelRiseRate: 1, FinalTime: 1}

	applyRule(t, g, FloodPropagation(), 1, p)

	want := []CellState{
		{LandUse: TerrestrialVegetationFlooded, Elevation: 0.5, SoilClass: 5},
		{LandUse: Sea, Elevation: 1.5, SoilClass: 5},
		{LandUse: TerrestrialVegetation, Elevation: 1, SoilClass: 5},
	}
	for c, w := range want {
		have, _ := g.Get(0, c)
		if have.LandUse != w.LandUse || absDifferent(have.Elevation, w.Elevation, tolerance) {
			t.Errorf("cell %d: have %+v, want %+v", c, have, w)
		}
	}
}

// Contributions made earlier in a pass are visible to cells visited later
// in the same pass.
func TestFloodPropagation_inPlaceAccumulation(t *testing.T) {
	const tolerance = 1e-12
	lu := dense([][]float64{{3, 3, 2}})
	el := dense([][]float64{{2, 1, 0}})
	g := newTestGrid(t, lu, el, fill(1, 3, 5))
	p := Params{CellArea: 1, SeaLevelRiseRate: 0.6, FinalTime: 1}

	applyRule(t, g, FloodPropagation(), 1, p)

	wantElev := []float64{2.3, 1.6, 0.3}
	wantLU := []LandUse{Sea, Sea, TerrestrialVegetationFlooded}
	for c := range wantElev {
		have, _ := g.Get(0, c)
		if absDifferent(have.Elevation, wantElev[c], tolerance) || have.LandUse != wantLU[c] {
			t.Errorf("cell %d: have %+v, want elevation %g and %v", c, have, wantElev[c], wantLU[c])
		}
	}
}

func TestFloodPropagation_negativeElevation(t *testing.T) {
	lu := dense([][]float64{{3, 2}})
	el := dense([][]float64{{-0.1, -1}})
	g := newTestGrid(t, lu, el, fill(1, 2, 5))
	applyRule(t, g, FloodPropagation(), 1, Params{CellArea: 1, SeaLevelRiseRate: 1, FinalTime: 1})
	for c := 0; c < 2; c++ {
		cur, _ := g.Get(0, c)
		prev, _ := g.GetPrevious(0, c)
		if cur != prev {
			t.Errorf("cell %d changed: %+v -> %+v", c, prev, cur)
		}
	}
}

func TestFloodPropagation_noTrigger(t *testing.T) {
	lu := dense([][]float64{
		{1, 2, 4},
		{5, 8, 2},
		{0, 99, 1},
	})
	el := dense([][]float64{
		{3, 2, 1},
		{0, -1, 4},
		{2, 2, 2},
	})
	g := newTestGrid(t, lu, el, dense([][]float64{
		{3, 0, 9},
		{1, 5, 5},
		{0, 3, 3},
	}))
	applyRule(t, g, FloodPropagation(), 1, Params{CellArea: 1, SeaLevelRiseRate: 0.5, FinalTime: 1})
	err := g.ForEachCell(func(c Cell) error {
		if c.Current != c.Previous {
			t.Errorf("(%d, %d) changed: %+v -> %+v", c.R, c.C, c.Previous, c.Current)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// Soil staged by a mangrove cell only allows migration from that cell in
// a later pass.
func TestMangroveDynamics_migrationRequiresStaging(t *testing.T) {
	const tolerance = 1e-12
	lu := dense([][]float64{{1, 2, 2}})
	el := fill(1, 3, 0)
	so := dense([][]float64{{3, 5, 5}})
	g := newTestGrid(t, lu, el, so)
	p := Params{CellArea: 1, TideHeight: 1, SeaLevelRiseRate: 0, FinalTime: 2}

	applyRule(t, g, MangroveDynamics(), 1, p)

	staged, _ := g.Get(0, 1)
	if staged.SoilClass != MangroveMigratedSoil {
		t.Errorf("neighbor soil = %v, want staged", staged.SoilClass)
	}
	if staged.LandUse != TerrestrialVegetation {
		t.Errorf("neighbor migrated in the year it was staged: %v", staged.LandUse)
	}
	if absDifferent(staged.Elevation, AccretionRate(1, 0), tolerance) {
		t.Errorf("staged cell elevation = %g, want %g", staged.Elevation, AccretionRate(1, 0))
	}
	unrelated, _ := g.Get(0, 2)
	if unrelated.SoilClass != 5 || unrelated.LandUse != TerrestrialVegetation || unrelated.Elevation != 0 {
		t.Errorf("unrelated cell changed: %+v", unrelated)
	}
	source, _ := g.Get(0, 0)
	if source.Elevation != 0 {
		t.Errorf("MangroveSoil should not accrete, elevation = %g", source.Elevation)
	}

	g.Synchronize()
	applyRule(t, g, MangroveDynamics(), 2, p)

	migrated, _ := g.Get(0, 1)
	if migrated.LandUse != MangroveMigrated {
		t.Errorf("neighbor land use = %v, want MangroveMigrated", migrated.LandUse)
	}
	unrelated, _ = g.Get(0, 2)
	if unrelated.SoilClass != 5 || unrelated.LandUse != TerrestrialVegetation {
		t.Errorf("cell next to migrated soil changed: %+v", unrelated)
	}
}

func TestMangroveDynamics_migrationOntoMangroveSoil(t *testing.T) {
	lu := dense([][]float64{{1, 5, 2}})
	el := dense([][]float64{{0, 0.5, 0}})
	so := dense([][]float64{{7, 3, 3}})
	g := newTestGrid(t, lu, el, so)
	p := Params{CellArea: 1, TideHeight: 0.4, SeaLevelRiseRate: 0, FinalTime: 1}

	applyRule(t, g, MangroveDynamics(), 1, p)

	// Above the tidal influence zone.
	high, _ := g.Get(0, 1)
	if high.LandUse != BareSoil {
		t.Errorf("high cell land use = %v, want BareSoil", high.LandUse)
	}

	p.TideHeight = 1
	applyRule(t, g, MangroveDynamics(), 1, p)
	high, _ = g.Get(0, 1)
	if high.LandUse != MangroveMigrated {
		t.Errorf("land use = %v, want MangroveMigrated", high.LandUse)
	}
	if high.SoilClass != MangroveSoil {
		t.Errorf("MangroveSoil should not be restaged, have %v", high.SoilClass)
	}
	far, _ := g.Get(0, 2)
	if far.LandUse != TerrestrialVegetation {
		t.Errorf("non-adjacent cell migrated: %v", far.LandUse)
	}
}

func TestMangroveDynamics_accretion(t *testing.T) {
	const tolerance = 1e-12
	// Soil codes 1 and 9 accrete; 3 does not. Flooded cells do not.
	lu := dense([][]float64{{2, 2, 2, 9, 3}})
	so := dense([][]float64{{1, 9, 3, 9, 1}})
	g := newTestGrid(t, lu, fill(1, 5, 10), so)
	p := Params{CellArea: 1, TideHeight: 0, SeaLevelRiseRate: 0.002, FinalTime: 4}

	applyRule(t, g, MangroveDynamics(), 4, p)

	rate := AccretionRate(4, p.SeaLevelRiseRate)
	want := []float64{10 + rate, 10 + rate, 10, 10, 10}
	for c, w := range want {
		have, _ := g.Get(0, c)
		if absDifferent(have.Elevation, w, tolerance) {
			t.Errorf("cell %d: elevation %g, want %g", c, have.Elevation, w)
		}
	}
}

func TestSoilClass_mangroveRooted(t *testing.T) {
	for s := SoilClass(-1); s <= 12; s++ {
		want := s == 1 || s == 9
		if have := s.mangroveRooted(); have != want {
			t.Errorf("soil %d: have %v, want %v", s, have, want)
		}
	}
	// Soil code 8 is not mangrove-rooted and must not accrete.
	g := newTestGrid(t, fill(1, 1, 2), fill(1, 1, 10), fill(1, 1, 8))
	applyRule(t, g, MangroveDynamics(), 1, Params{CellArea: 1, TideHeight: 0, SeaLevelRiseRate: 0.002, FinalTime: 1})
	if have, _ := g.Get(0, 0); have.Elevation != 10 {
		t.Errorf("soil 8 accreted to %g", have.Elevation)
	}
}

func TestMangroveDynamics_fluvialChannelStaging(t *testing.T) {
	lu := dense([][]float64{
		{2, 5, 4},
		{2, 3, 2},
		{2, 2, 2},
	})
	el := dense([][]float64{
		{0, 0, 0},
		{0, 0, 2},
		{0, 0, 0},
	})
	so := dense([][]float64{
		{5, 5, 5},
		{3, 0, 5},
		{5, 5, 5},
	})
	g := newTestGrid(t, lu, el, so)
	applyRule(t, g, MangroveDynamics(), 1, Params{CellArea: 1, TideHeight: 1, FinalTime: 1})

	want := [][]SoilClass{
		{9, 9, 5}, // anthropized area is not staged
		{3, 0, 5}, // MangroveSoil is kept; (1,2) is above the zone
		{9, 9, 9},
	}
	for r := range want {
		for c := range want[r] {
			s, _ := g.Get(r, c)
			if s.SoilClass != want[r][c] {
				t.Errorf("(%d, %d): soil %v, want %v", r, c, s.SoilClass, want[r][c])
			}
		}
	}
}
