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
	"io"

	"github.com/spatialmodel/mangue"
	"github.com/tealeg/xlsx"
)

// Sheet names used in spreadsheet output.
const (
	ResultsSheet = "Results"
	LandUseSheet = "Final land use"
)

// WriteResultsXLSX writes the yearly results in rs and the land-use
// accounting of the final year to w as an Excel workbook.
func WriteResultsXLSX(w io.Writer, rs mangue.ResultSeries, final mangue.AccountingRecord) error {
	f := xlsx.NewFile()

	results, err := f.AddSheet(ResultsSheet)
	if err != nil {
		return err
	}
	row := results.AddRow()
	for _, h := range ResultColumns {
		row.AddCell().SetString(h)
	}
	for _, r := range rs {
		row = results.AddRow()
		row.AddCell().SetInt(r.Year)
		row.AddCell().SetFloat(r.VegetatedArea)
		row.AddCell().SetFloat(r.FloodedVegetationArea)
		row.AddCell().SetFloat(r.TotalArea)
	}

	landUse, err := f.AddSheet(LandUseSheet)
	if err != nil {
		return err
	}
	row = landUse.AddRow()
	for _, h := range []string{"code", "class", "area_ha"} {
		row.AddCell().SetString(h)
	}
	for _, u := range mangue.LandUses {
		row = landUse.AddRow()
		row.AddCell().SetInt(int(u))
		row.AddCell().SetString(u.String())
		row.AddCell().SetFloat(final.Get(u))
	}
	row = landUse.AddRow()
	row.AddCell().SetString("Total")
	row.AddCell().SetString("all classes")
	row.AddCell().SetFloat(final.Total)

	return f.Write(w)
}
