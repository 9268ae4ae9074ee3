package rotlib

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phil-mansfield/table"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/confind/structure"
)

const (
	ExampleIndexFile = `# Rotamer library index. Every [AminoAcid] section names the side-chain
# atoms of that amino acid, in the order their coordinates appear in the
# data file, and the data file itself (relative to this file).
#
# Data files are whitespace separated numeric tables with one rotamer per
# row: the rotamer weight followed by x y z for every atom, in the local
# backbone frame (origin at CA, x towards N, z normal to the N-CA-C plane).
# Weights do not need to be normalized.

[AminoAcid "SER"]
Atom = CB
Atom = OG
File = ser.tab

[AminoAcid "VAL"]
Atom = CB
Atom = CG1
Atom = CG2
File = val.tab`
)

type aminoAcidConfig struct {
	Atom []string
	File string
}

type indexConfig struct {
	AminoAcid map[string]*aminoAcidConfig
}

type entry struct {
	names   []string
	weights []float64
	coords  [][]r3.Vec
	total   float64
}

// Table is a Library holding rotamers in local backbone coordinates.
type Table struct {
	aas map[string]*entry
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{aas: map[string]*entry{}}
}

// ReadTable reads the rotamer library described by the given index file.
func ReadTable(indexFile string) (*Table, error) {
	con := indexConfig{}
	if err := gcfg.ReadFileInto(&con, indexFile); err != nil {
		return nil, err
	}
	if len(con.AminoAcid) == 0 {
		return nil, fmt.Errorf(
			"Rotamer index '%s' contains no [AminoAcid] sections.", indexFile,
		)
	}

	dir := filepath.Dir(indexFile)
	t := NewTable()
	for name, aa := range con.AminoAcid {
		aaName := strings.ToUpper(name)
		if len(aa.Atom) == 0 {
			return nil, fmt.Errorf("Amino acid '%s' lists no atoms.", aaName)
		} else if aa.File == "" {
			return nil, fmt.Errorf("Amino acid '%s' has no File.", aaName)
		}

		file := aa.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		if err := t.readAminoAcid(aaName, aa.Atom, file); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Table) readAminoAcid(aa string, names []string, file string) error {
	colIdxs := make([]int, 1+3*len(names))
	for i := range colIdxs {
		colIdxs[i] = i
	}

	cols, err := table.ReadTable(file, colIdxs, nil)
	if err != nil {
		return fmt.Errorf("reading rotamers of %s: %w", aa, err)
	}

	weights := cols[0]
	for i := range weights {
		atoms := make([]Atom, len(names))
		for j := range names {
			atoms[j] = Atom{names[j], r3.Vec{
				X: cols[1+3*j][i], Y: cols[2+3*j][i], Z: cols[3+3*j][i],
			}}
		}
		if err := t.Add(aa, weights[i], atoms); err != nil {
			return fmt.Errorf("%s row %d: %w", file, i, err)
		}
	}
	return nil
}

// Add appends a rotamer of aa with local frame coordinates. Every rotamer of
// an amino acid must list the same atoms in the same order.
func (t *Table) Add(aa string, weight float64, atoms []Atom) error {
	if err := checkWeight(weight); err != nil {
		return err
	}

	e, ok := t.aas[aa]
	if !ok {
		e = &entry{}
		for _, a := range atoms {
			e.names = append(e.names, a.Name)
		}
		t.aas[aa] = e
	} else if len(atoms) != len(e.names) {
		return fmt.Errorf(
			"%s rotamers have %d atoms, but got %d", aa, len(e.names), len(atoms),
		)
	}

	xs := make([]r3.Vec, len(atoms))
	for i, a := range atoms {
		if a.Name != e.names[i] {
			return fmt.Errorf(
				"%s atom %d is %s, but got %s", aa, i, e.names[i], a.Name,
			)
		}
		xs[i] = a.Coords
	}

	e.weights = append(e.weights, weight)
	e.coords = append(e.coords, xs)
	e.total += weight
	return nil
}

// AminoAcids returns the amino acids in the table in sorted order.
func (t *Table) AminoAcids() []string {
	out := make([]string, 0, len(t.aas))
	for aa := range t.aas {
		out = append(out, aa)
	}
	sort.Strings(out)
	return out
}

// NumRotamers returns the number of rotamers stored for aa.
func (t *Table) NumRotamers(aa string) int {
	if e, ok := t.aas[aa]; ok {
		return len(e.weights)
	}
	return 0
}

// Rotamers places every rotamer of aa onto the backbone of res.
func (t *Table) Rotamers(
	s *structure.Structure, res structure.ResidueID, aa string,
) ([]Rotamer, error) {
	e, ok := t.aas[aa]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAminoAcid, aa)
	}

	f, err := ResidueFrame(s, res)
	if err != nil {
		return nil, err
	}

	rots := make([]Rotamer, len(e.weights))
	for i := range rots {
		w := 0.0
		if e.total > 0 {
			w = e.weights[i] / e.total
		}

		atoms := make([]Atom, len(e.names))
		for j, name := range e.names {
			atoms[j] = Atom{name, f.ToGlobal(e.coords[i][j])}
		}
		rots[i] = Rotamer{AA: aa, Index: i, Weight: w, Atoms: atoms}
	}
	return rots, nil
}
