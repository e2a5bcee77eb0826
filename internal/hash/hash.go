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

// Package hash computes fingerprints of simulation inputs, so that runs
// started from identical inputs can be matched up in log output.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
	"github.com/spatialmodel/mangue"
	"gonum.org/v1/gonum/mat"
)

// Hash returns a hash key for the specified object.
func Hash(object interface{}) string {
	h := fnv.New128a()
	if err := gob.NewEncoder(h).Encode(object); err != nil {
		// Fall back to a deterministic dump for values gob can't encode.
		h.Reset()
		printer := spew.ConfigState{
			Indent:                  " ",
			SortKeys:                true,
			DisableMethods:          true,
			SpewKeys:                true,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
		}
		printer.Fprintf(h, "%#v", object)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Inputs returns a hash key for the parameters and current state of a
// simulation. It should be computed before the simulation is run.
func Inputs(p mangue.Params, g *mangue.Grid) string {
	return Hash(struct {
		Params                       mangue.Params
		LandUse, Elevation, SoilClass *mat.Dense
	}{
		Params:    p,
		LandUse:   g.LandUse(),
		Elevation: g.Elevation(),
		SoilClass: g.SoilClass(),
	})
}
