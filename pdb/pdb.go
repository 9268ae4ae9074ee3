/*
Package pdb reads the coordinate section of PDB files into a
structure.Structure.

Only ATOM and HETATM records of the first model are used. Everything else in
the file (headers, SEQRES, connectivity) is ignored.
*/
package pdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/confind/structure"
)

// ReadFile reads a PDB file. If the file name ends with ".gz", gzip
// decompression will be used.
func ReadFile(fileName string) (*structure.Structure, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if path.Ext(fileName) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	s, err := Read(reader, path.Base(fileName))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return s, nil
}

type residueKey struct {
	chain string
	num   int
	icode byte
}

type reader struct {
	s        *structure.Structure
	chains   map[string]int
	residues map[residueKey]structure.ResidueID
	lastKey  residueKey
	lastRes  structure.ResidueID
	started  bool
}

// Read parses PDB records from r into a new Structure called name.
func Read(r io.Reader, name string) (*structure.Structure, error) {
	rd := &reader{
		s:        structure.New(name),
		chains:   map[string]int{},
		residues: map[residueKey]structure.ResidueID{},
	}

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if len(line) < 6 {
			continue
		}

		// The record name is always in the first six columns.
		switch strings.TrimSpace(line[0:6]) {
		case "ATOM":
			if err := rd.parseAtom(line, false); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		case "HETATM":
			if err := rd.parseAtom(line, true); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		case "ENDMDL":
			return rd.finish()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rd.finish()
}

func (rd *reader) finish() (*structure.Structure, error) {
	if rd.s.NumAtoms() == 0 {
		return nil, fmt.Errorf("no ATOM or HETATM records found")
	}
	return rd.s, nil
}

func (rd *reader) parseAtom(line string, het bool) error {
	if len(line) < 54 {
		return fmt.Errorf("coordinate record is only %d columns wide", len(line))
	}

	// Alternate locations beyond the first are dropped.
	if alt := line[16]; alt != ' ' && alt != 'A' {
		return nil
	}

	atomName := strings.TrimSpace(line[12:16])
	resName := strings.TrimSpace(line[17:20])
	chainID := string(line[21])
	if chainID == " " {
		chainID = "_"
	}

	num, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return fmt.Errorf("bad residue number '%s'", line[22:26])
	}

	var xyz [3]float64
	for i := range xyz {
		field := strings.TrimSpace(line[30+8*i : 38+8*i])
		if xyz[i], err = strconv.ParseFloat(field, 64); err != nil {
			return fmt.Errorf("bad coordinate '%s'", field)
		}
	}

	key := residueKey{chainID, num, line[26]}
	res := rd.residue(key, resName)
	rd.s.AddAtom(res, atomName, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, het)
	return nil
}

// residue returns the residue an atom record belongs to, creating it (and its
// chain) when needed. A chain that reappears after another chain was started
// gets a fresh chain, since residues are stored in structural order.
func (rd *reader) residue(
	key residueKey, resName string,
) structure.ResidueID {
	if rd.started && key == rd.lastKey {
		return rd.lastRes
	}
	if id, ok := rd.residues[key]; ok && rd.s.Residue(id).Chain == rd.s.NumChains()-1 {
		return id
	}

	chain, ok := rd.chains[key.chain]
	if !ok || chain != rd.s.NumChains()-1 {
		chain = rd.s.AddChain(key.chain)
		rd.chains[key.chain] = chain
	}

	id := rd.s.AddResidue(chain, resName, key.num, key.icode)
	rd.residues[key] = id
	rd.lastKey, rd.lastRes, rd.started = key, id, true
	return id
}
