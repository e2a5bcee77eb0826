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

// CumulativeRise returns the total sea-level rise [m] after the given
// number of years.
func CumulativeRise(year int, rate float64) float64 {
	return float64(year) * rate
}

// AccretionRate returns the yearly sediment accretion [m/year] on
// mangrove soils after the given number of years, as a linear function of
// cumulative sea-level rise in mm.
func AccretionRate(year int, rate float64) float64 {
	const (
		intercept = 1.693 // [mm/year]
		slope     = 0.939 // [mm/year per mm of rise]
	)
	mm := intercept + slope*(CumulativeRise(year, rate)*1000)
	return mm / 1000
}

// TidalInfluenceZone returns the elevation [m] at or below which cells
// are reached by the tide after the given number of years.
func TidalInfluenceZone(year int, p Params) float64 {
	return p.TideHeight + CumulativeRise(year, p.SeaLevelRiseRate)
}

// FloodPropagation returns a function that spreads sea-level rise from
// an inundated cell to its lower neighbors. The decision is based on the
// previous generation; elevation and land-use changes are written to the
// current generation.
//
// A cell triggers when it was sea or flooded in the previous year and its
// previous elevation was not negative. The yearly rise is split equally
// between the cell and each neighbor that was strictly lower, and lower
// neighbors that were not already under water become flooded.
func FloodPropagation() CellManipulator {
	return func(g *Grid, c Cell, year int, p Params) error {
		if !c.Previous.LandUse.SeaOrFlooded() || c.Previous.Elevation < 0 {
			return nil
		}
		neighbors, err := g.neighbors(c.R, c.C)
		if err != nil {
			return err
		}
		var lower []Cell
		for _, n := range neighbors {
			if n.Previous.Elevation < c.Previous.Elevation {
				lower = append(lower, n)
			}
		}
		flow := p.SeaLevelRiseRate / float64(1+len(lower))

		if err := g.addElevation(c.R, c.C, flow); err != nil {
			return err
		}
		for _, n := range lower {
			if err := g.addElevation(n.R, n.C, flow); err != nil {
				return err
			}
			if !n.Previous.LandUse.SeaOrFlooded() {
				if err := g.SetLandUse(n.R, n.C, n.Previous.LandUse.Flooded()); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// MangroveDynamics returns a function that migrates mangrove into
// neighboring cells and accretes sediment on mangrove soils. It reads and
// writes the current generation, so it sees the results of this year's
// flooding and of cells visited earlier in the same pass.
//
// Neighbor values are read before the cell makes any changes, so soil
// staged by a cell does not enable migration from that same cell until a
// later visit.
func MangroveDynamics() CellManipulator {
	return func(g *Grid, c Cell, year int, p Params) error {
		zone := TidalInfluenceZone(year, p)
		cur := c.Current
		neighbors, err := g.neighbors(c.R, c.C)
		if err != nil {
			return err
		}

		// Soil staging.
		if cur.SoilClass == MangroveSoil || cur.SoilClass == FluvialChannel {
			for _, n := range neighbors {
				nc := n.Current
				if nc.LandUse.migratable() && nc.SoilClass != MangroveSoil && nc.Elevation <= zone {
					if err := g.SetSoilClass(n.R, n.C, MangroveMigratedSoil); err != nil {
						return err
					}
				}
			}
		}

		// Land-use migration.
		if cur.LandUse == Mangrove {
			for _, n := range neighbors {
				nc := n.Current
				if nc.LandUse.migratable() && nc.Elevation <= zone &&
					(nc.SoilClass == MangroveMigratedSoil || nc.SoilClass == MangroveSoil) {
					if err := g.SetLandUse(n.R, n.C, MangroveMigrated); err != nil {
						return err
					}
				}
			}
		}

		// Accretion.
		if cur.SoilClass.mangroveRooted() && !cur.LandUse.SeaOrFlooded() {
			return g.SetElevation(c.R, c.C, cur.Elevation+AccretionRate(year, p.SeaLevelRiseRate))
		}
		return nil
	}
}

// addElevation adds dz to the current elevation at (r, c).
func (g *Grid) addElevation(r, c int, dz float64) error {
	s, err := g.Get(r, c)
	if err != nil {
		return err
	}
	return g.SetElevation(r, c, s.Elevation+dz)
}
