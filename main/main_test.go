package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/confind/io"
)

func atomLine(serial int, name, resName string, chain byte, x, y, z float64) string {
	return fmt.Sprintf(
		"ATOM  %5d %-4s %-3s %c%4d    %8.3f%8.3f%8.3f  1.00  0.00",
		serial, name, resName, chain, 1, x, y, z,
	)
}

// writeInputs writes a SER on chain A and a THR on chain B, 5 A apart along z,
// plus a rotamer library under which exactly one pair of their rotamers
// collides.
func writeInputs(t *testing.T) *io.ConfindWrapper {
	dir := t.TempDir()

	lines := []string{}
	serial := 1
	for _, res := range []struct {
		name  string
		chain byte
		z     float64
	}{{"SER", 'A', 0}, {"THR", 'B', 5}} {
		for _, a := range []struct {
			name string
			x, y float64
		}{{" N", 1.46, 0}, {" CA", 0, 0}, {" C", -0.5, 1.45}, {" O", -1.5, 2}} {
			lines = append(lines, atomLine(serial, a.name, res.name, res.chain, a.x, a.y, res.z))
			serial++
		}
	}
	lines = append(lines, "END")

	files := map[string]string{
		"pair.pdb": strings.Join(lines, "\n") + "\n",
		"lib.cfg": "[AminoAcid \"SER\"]\nAtom = OG\nFile = ser.tab\n\n" +
			"[AminoAcid \"THR\"]\nAtom = OG1\nFile = thr.tab\n",
		"ser.tab": "1 0 -3 2.5\n1 0 -3 -6\n1 6 -3 -6\n",
		"thr.tab": "1 0 -3 0\n1 0 -3 10\n1 8 -3 10\n",
	}
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0644))
	}

	wrap := io.DefaultConfindWrapper()
	wrap.Confind.Structure = filepath.Join(dir, "pair.pdb")
	wrap.Confind.RotamerLibrary = filepath.Join(dir, "lib.cfg")
	wrap.Confind.ContDist = 4
	return wrap
}

func TestAnalyze(t *testing.T) {
	wrap := writeInputs(t)
	rep, err := analyze(wrap)
	require.NoError(t, err)

	require.Len(t, rep.Contacts, 1)
	assert.Equal(t, "A,1", rep.Contacts[0].Src)
	assert.Equal(t, "B,1", rep.Contacts[0].Dst)
	assert.InDelta(t, 1.0/9, rep.Contacts[0].Value, 1e-9)
	assert.Empty(t, rep.Interference)
	assert.Empty(t, rep.Backbone)

	require.Len(t, rep.Residues, 2)
	freedom, crowdedness := scores(rep)
	assert.Len(t, freedom, 2)
	assert.InDelta(t, 1.0/9, crowdedness[0], 1e-9)
	assert.InDelta(t, freedom[0], freedom[1], 1e-9)

	wrap.Confind.BBCut = 6
	rep, err = analyze(wrap)
	require.NoError(t, err)
	require.Len(t, rep.Backbone, 1)
	assert.InDelta(t, 5, rep.Backbone[0].Value, 1e-3)
}

func TestAnalyzeSelection(t *testing.T) {
	wrap := writeInputs(t)
	wrap.Selection = map[string]*io.SelectionConfig{
		"b": {Chain: []string{"B"}},
	}
	wrap.Confind.Excluded = "THR"

	rep, err := analyze(wrap)
	require.NoError(t, err)
	require.Len(t, rep.Residues, 1)
	assert.Equal(t, "B,1", rep.Residues[0].Residue)
	assert.Nil(t, rep.Residues[0].Freedom)
	assert.Len(t, rep.Contacts, 0, "excluded residues have no rotamers to contact")

	wrap.Confind.Structure = filepath.Join(t.TempDir(), "missing.pdb")
	_, err = analyze(wrap)
	assert.Error(t, err)
}
