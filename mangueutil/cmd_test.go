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
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/mangue"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gonum.org/v1/gonum/mat"
)

// execute runs the root command with the given arguments and returns
// its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	b := new(bytes.Buffer)
	Root.SetOutput(b)
	defer Root.SetOutput(nil)
	Root.SetArgs(args)
	err := Root.Execute()
	return b.String(), err
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "BR-Mangue v"+mangue.Version+"\n", out)
}

func TestRun(t *testing.T) {
	dir, err := ioutil.TempDir("", "mangue")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	withConfig(t, map[string]interface{}{
		"config":        "testdata/configExample.toml",
		"OutputFile":    filepath.Join(dir, "results.csv"),
		"GridOutputDir": filepath.Join(dir, "grids"),
		"PlotDir":       filepath.Join(dir, "plots"),
	})
	out, err := execute(t, "run")
	require.NoError(t, err)
	require.Contains(t, out, "year complete")
	require.Contains(t, out, "simulation complete")
	require.Contains(t, out, "input_hash=")

	b, err := ioutil.ReadFile(filepath.Join(dir, "results.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 11)
	require.Equal(t, strings.Join(ResultColumns, ","), lines[0])
	require.True(t, strings.HasPrefix(lines[10], "10,"), lines[10])

	logText, err := ioutil.ReadFile(filepath.Join(dir, "results.log"))
	require.NoError(t, err)
	require.Contains(t, string(logText), "simulation complete")

	for _, name := range []string{"landuse.csv", "elevation.csv", "soil.csv"} {
		f, err := os.Open(filepath.Join(dir, "grids", name))
		require.NoError(t, err)
		m, err := ReadMatrix(f, ',')
		f.Close()
		require.NoError(t, err)
		r, c := m.Dims()
		require.Equal(t, 4, r, name)
		require.Equal(t, 5, c, name)
	}
	require.FileExists(t, filepath.Join(dir, "plots", "areas.png"))
}

func TestRun_xlsx(t *testing.T) {
	dir, err := ioutil.TempDir("", "mangue")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	withConfig(t, map[string]interface{}{
		"config":     "testdata/configExample.toml",
		"OutputFile": filepath.Join(dir, "results.xlsx"),
	})
	_, err = execute(t, "run")
	require.NoError(t, err)

	f, err := xlsx.OpenFile(filepath.Join(dir, "results.xlsx"))
	require.NoError(t, err)
	require.Len(t, f.Sheet[ResultsSheet].Rows, 11)
	require.FileExists(t, filepath.Join(dir, "results.log"))
}

// The final grids written by the command line match a simulation run
// directly on the same inputs.
func TestRun_matchesSimulate(t *testing.T) {
	dir, err := ioutil.TempDir("", "mangue")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	withConfig(t, map[string]interface{}{
		"config":        "testdata/configExample.toml",
		"OutputFile":    filepath.Join(dir, "results.csv"),
		"GridOutputDir": dir,
	})
	_, err = execute(t, "run")
	require.NoError(t, err)

	c, err := LoadConfig(Cfg)
	require.NoError(t, err)
	g, err := LoadGrid(c)
	require.NoError(t, err)
	m := mangue.NewModel(g, c.Params(), mangue.WithLogger(quietLogger()))
	require.NoError(t, m.Init())
	require.NoError(t, m.Run())

	want := new(bytes.Buffer)
	require.NoError(t, WriteResults(want, m.Results, ','))
	have, err := ioutil.ReadFile(filepath.Join(dir, "results.csv"))
	require.NoError(t, err)
	require.Equal(t, want.String(), string(have))

	f, err := os.Open(filepath.Join(dir, "landuse.csv"))
	require.NoError(t, err)
	defer f.Close()
	lu, err := ReadMatrix(f, ',')
	require.NoError(t, err)
	require.True(t, mat.Equal(lu, g.LandUse()), "have %v", mat.Formatted(lu))
}

func TestRun_invalidParameter(t *testing.T) {
	withConfig(t, map[string]interface{}{
		"config":    "testdata/configExample.toml",
		"FinalTime": 0,
	})
	_, err := execute(t, "run")
	require.ErrorIs(t, err, mangue.ErrInvalidParameter)
}

func TestRun_missingInput(t *testing.T) {
	withConfig(t, map[string]interface{}{
		"config":      "testdata/configExample.toml",
		"LandUseFile": "testdata/missing.csv",
	})
	_, err := execute(t, "run")
	require.Error(t, err)
	require.Contains(t, err.Error(), "LandUseFile")
}

func TestConfigCmd(t *testing.T) {
	withConfig(t, map[string]interface{}{"config": "testdata/configExample.toml"})
	out, err := execute(t, "config")
	require.NoError(t, err)

	var have Config
	_, err = toml.Decode(out, &have)
	require.NoError(t, err)
	want, err := LoadConfig(Cfg)
	require.NoError(t, err)
	if diff := cmp.Diff(*want, have); diff != "" {
		t.Errorf("printed config mismatch (-want +have):\n%s", diff)
	}
}
