/*Package structure holds a read-only residue/atom hierarchy for a macromolecule.

A Structure owns every chain, residue and atom. Everything else refers to them
through ResidueID and AtomID values, which are stable indices into the
Structure's arena. Residue ids follow structural order: chains in the order
they were added, residues in chain order.
*/
package structure

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ResidueID is the structural index of a residue.
type ResidueID int

// AtomID is the index of an atom within its Structure.
type AtomID int

type Atom struct {
	Name    string
	Coords  r3.Vec
	Het     bool
	Residue ResidueID
}

type Residue struct {
	Name          string
	Num           int
	InsertionCode byte
	Chain         int
	// Pos is the position of the residue within its chain.
	Pos   int
	Atoms []AtomID
}

type Chain struct {
	ID       string
	Residues []ResidueID
}

// Structure is the owning arena of a set of chains.
type Structure struct {
	Name string

	chains   []Chain
	residues []Residue
	atoms    []Atom
	gen      int
}

// New returns an empty Structure.
func New(name string) *Structure {
	return &Structure{Name: name}
}

// AddChain appends a new chain and returns its index.
func (s *Structure) AddChain(id string) int {
	s.chains = append(s.chains, Chain{ID: id})
	s.gen++
	return len(s.chains) - 1
}

// AddResidue appends a residue to the end of the given chain. Residues must be
// added chain by chain so that ids stay in structural order; appending to a
// chain other than the last one panics.
func (s *Structure) AddResidue(
	chain int, name string, num int, icode byte,
) ResidueID {
	if chain != len(s.chains)-1 {
		panic(fmt.Sprintf(
			"Residues can only be appended to the last chain (%d), not %d.",
			len(s.chains)-1, chain,
		))
	}

	id := ResidueID(len(s.residues))
	c := &s.chains[chain]
	s.residues = append(s.residues, Residue{
		Name: name, Num: num, InsertionCode: icode,
		Chain: chain, Pos: len(c.Residues),
	})
	c.Residues = append(c.Residues, id)
	s.gen++
	return id
}

// AddAtom appends an atom to the given residue.
func (s *Structure) AddAtom(
	res ResidueID, name string, coords r3.Vec, het bool,
) AtomID {
	id := AtomID(len(s.atoms))
	s.atoms = append(s.atoms, Atom{
		Name: name, Coords: coords, Het: het, Residue: res,
	})
	r := &s.residues[res]
	r.Atoms = append(r.Atoms, id)
	s.gen++
	return id
}

// SetCoords moves an atom. Anything built from the previous coordinates is
// now out of date, which Generation reports.
func (s *Structure) SetCoords(id AtomID, v r3.Vec) {
	s.atoms[id].Coords = v
	s.gen++
}

// Generation is incremented by every mutation of the Structure.
func (s *Structure) Generation() int { return s.gen }

func (s *Structure) NumChains() int   { return len(s.chains) }
func (s *Structure) NumResidues() int { return len(s.residues) }
func (s *Structure) NumAtoms() int    { return len(s.atoms) }

// Valid returns true if id refers to a residue of s.
func (s *Structure) Valid(id ResidueID) bool {
	return id >= 0 && int(id) < len(s.residues)
}

func (s *Structure) Chain(i int) *Chain           { return &s.chains[i] }
func (s *Structure) Residue(id ResidueID) *Residue { return &s.residues[id] }
func (s *Structure) Atom(id AtomID) *Atom          { return &s.atoms[id] }

// Residues returns the ids of every residue in structural order.
func (s *Structure) Residues() []ResidueID {
	ids := make([]ResidueID, len(s.residues))
	for i := range ids {
		ids[i] = ResidueID(i)
	}
	return ids
}

// ResidueAtoms returns the atoms of a residue.
func (s *Structure) ResidueAtoms(id ResidueID) []Atom {
	r := &s.residues[id]
	out := make([]Atom, len(r.Atoms))
	for i, a := range r.Atoms {
		out[i] = s.atoms[a]
	}
	return out
}

// FindAtom returns the first atom with the given name in a residue.
func (s *Structure) FindAtom(id ResidueID, name string) (Atom, bool) {
	for _, a := range s.residues[id].Atoms {
		if s.atoms[a].Name == name {
			return s.atoms[a], true
		}
	}
	return Atom{}, false
}

// Backbone returns the coordinates of the N, CA, C and O atoms of a residue,
// in that order. ok is false if any of them is missing.
func (s *Structure) Backbone(id ResidueID) (bb [4]r3.Vec, ok bool) {
	for i, name := range BackboneNames {
		a, found := s.FindAtom(id, name)
		if !found {
			return bb, false
		}
		bb[i] = a.Coords
	}
	return bb, true
}

// SequenceSeparation returns the number of positions between two residues of
// the same chain, or -1 if they belong to different chains.
func (s *Structure) SequenceSeparation(a, b ResidueID) int {
	ra, rb := &s.residues[a], &s.residues[b]
	if ra.Chain != rb.Chain {
		return -1
	}
	if ra.Pos > rb.Pos {
		return ra.Pos - rb.Pos
	}
	return rb.Pos - ra.Pos
}

// ResidueLabel returns a short human-readable residue name, e.g. "A,42 LEU".
func (s *Structure) ResidueLabel(id ResidueID) string {
	r := &s.residues[id]
	num := fmt.Sprintf("%d", r.Num)
	if r.InsertionCode != 0 && r.InsertionCode != ' ' {
		num += string(r.InsertionCode)
	}
	return fmt.Sprintf("%s,%s %s", s.chains[r.Chain].ID, num, r.Name)
}

// ResidueKey returns the chain-and-number part of ResidueLabel, e.g. "A,42".
func (s *Structure) ResidueKey(id ResidueID) string {
	r := &s.residues[id]
	if r.InsertionCode != 0 && r.InsertionCode != ' ' {
		return fmt.Sprintf("%s,%d%c", s.chains[r.Chain].ID, r.Num, r.InsertionCode)
	}
	return fmt.Sprintf("%s,%d", s.chains[r.Chain].ID, r.Num)
}
