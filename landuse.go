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

import "fmt"

// LandUse is a land-use and land-cover class code.
type LandUse int

// Land-use classes. The numeric codes are those used by the input
// land-use rasters.
const (
	Mangrove                     LandUse = 1
	TerrestrialVegetation        LandUse = 2
	Sea                          LandUse = 3
	AnthropizedArea              LandUse = 4
	BareSoil                     LandUse = 5
	BareSoilFlooded              LandUse = 6
	AnthropizedFlooded           LandUse = 7
	MangroveMigrated             LandUse = 8
	MangroveFlooded              LandUse = 9
	TerrestrialVegetationFlooded LandUse = 10
)

// LandUses lists every recognized land-use class in code order.
var LandUses = []LandUse{
	Mangrove, TerrestrialVegetation, Sea, AnthropizedArea, BareSoil,
	BareSoilFlooded, AnthropizedFlooded, MangroveMigrated, MangroveFlooded,
	TerrestrialVegetationFlooded,
}

var landUseNames = map[LandUse]string{
	Mangrove:                     "Mangrove",
	TerrestrialVegetation:        "TerrestrialVegetation",
	Sea:                          "Sea",
	AnthropizedArea:              "AnthropizedArea",
	BareSoil:                     "BareSoil",
	BareSoilFlooded:              "BareSoilFlooded",
	AnthropizedFlooded:           "AnthropizedFlooded",
	MangroveMigrated:             "MangroveMigrated",
	MangroveFlooded:              "MangroveFlooded",
	TerrestrialVegetationFlooded: "TerrestrialVegetationFlooded",
}

// Valid returns whether u is one of the recognized land-use classes.
// Cells holding other values are treated as no-data.
func (u LandUse) Valid() bool {
	return u >= Mangrove && u <= TerrestrialVegetationFlooded
}

func (u LandUse) String() string {
	if s, ok := landUseNames[u]; ok {
		return s
	}
	return fmt.Sprintf("LandUse(%d)", int(u))
}

// SeaOrFlooded returns whether u is open water or a class that has
// already been inundated.
func (u LandUse) SeaOrFlooded() bool {
	switch u {
	case Sea, BareSoilFlooded, AnthropizedFlooded, MangroveFlooded,
		TerrestrialVegetationFlooded:
		return true
	}
	return false
}

// Flooded returns the inundated counterpart of u. Classes without a
// flooded counterpart are returned unchanged.
func (u LandUse) Flooded() LandUse {
	switch u {
	case Mangrove:
		return MangroveFlooded
	case TerrestrialVegetation:
		return TerrestrialVegetationFlooded
	case AnthropizedArea:
		return AnthropizedFlooded
	case BareSoil:
		return BareSoilFlooded
	default:
		return u
	}
}

// migratable returns whether mangrove can colonize a cell of class u.
func (u LandUse) migratable() bool {
	return u == TerrestrialVegetation || u == BareSoil
}

// SoilClass is a soil taxonomy code. Only a few codes are acted on by
// the transition rules; all other values are carried through unchanged.
type SoilClass int

// Soil classes with special meaning to the transition rules.
const (
	FluvialChannel       SoilClass = 0
	MangroveSoil         SoilClass = 3
	MangroveMigratedSoil SoilClass = 9
)

// mangroveRooted returns whether s counts as mangrove-rooted soil for
// sediment accretion. The first comparison is against the numeric code
// of the Mangrove land-use class, not MangroveSoil.
// TODO: confirm with the model authors whether MangroveSoil was intended.
func (s SoilClass) mangroveRooted() bool {
	return s == SoilClass(Mangrove) || s == MangroveMigratedSoil
}
