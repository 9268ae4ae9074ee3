/*Package condeg computes contact degrees between the residues of a protein.

Two residues are in contact to the degree that the side-chain conformations
available to one collide with those available to the other. An Engine
enumerates rotamers at each residue, prunes those that collide with any
backbone, and scores every pair of neighboring residues by the weighted
fraction of their surviving rotamer pairs that clash. From the same data it
derives directional backbone-to-side-chain interference, backbone-backbone
interactions and per-residue freedom and crowdedness.

Engines are not safe for concurrent use.
*/
package condeg

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/confind/geom"
	"github.com/phil-mansfield/confind/rotlib"
	"github.com/phil-mansfield/confind/structure"
)

var (
	ErrStale           = errors.New("condeg: structure changed after the engine was built")
	ErrMissingBackbone = errors.New("condeg: residue is missing backbone atoms")
	ErrNotConsidered   = errors.New("condeg: residue has no rotamers to consider")
	ErrInvalidResidue  = errors.New("condeg: no such residue")
)

// Readiness describes what an Engine knows about a residue.
type Readiness int

const (
	Uncached Readiness = iota
	Cached
	// Stale means the structure was modified after the engine was built.
	Stale
)

func (r Readiness) String() string {
	switch r {
	case Uncached:
		return "Uncached"
	case Cached:
		return "Cached"
	case Stale:
		return "Stale"
	}
	return fmt.Sprintf("Readiness(%d)", int(r))
}

// Engine computes contacts over a frozen snapshot of a Structure.
type Engine struct {
	s   *structure.Structure
	lib rotlib.Library
	p   Params
	gen int

	// aaNames lists the amino acids enumerated at every position in design
	// mode.
	aaNames []string

	bbPos map[structure.ResidueID][4]r3.Vec
	caPos map[structure.ResidueID]r3.Vec
	// residues lists every residue with a complete backbone.
	residues []structure.ResidueID

	bbNN, caNN *geom.Search

	caches   []*residueCache
	clashes  map[residuePair][]rotamerPair
	degrees  map[residuePair]float64
	updating map[structure.ResidueID]bool

	rotLog *log.Logger
	rotOut *os.File
}

// New builds the backbone and alpha-carbon indices of s. s must not be
// modified while the Engine is in use; if it is, every query returns
// ErrStale.
func New(s *structure.Structure, lib rotlib.Library, p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if lib == nil {
		return nil, fmt.Errorf("condeg: a rotamer library is required")
	}

	e := &Engine{
		s: s, lib: lib, p: p, gen: s.Generation(),
		bbPos:    map[structure.ResidueID][4]r3.Vec{},
		caPos:    map[structure.ResidueID]r3.Vec{},
		caches:   make([]*residueCache, s.NumResidues()),
		clashes:  map[residuePair][]rotamerPair{},
		degrees:  map[residuePair]float64{},
		updating: map[structure.ResidueID]bool{},
	}

	for _, aa := range lib.AminoAcids() {
		if !p.excluded(aa) && p.Propensity[aa] > 0 {
			e.aaNames = append(e.aaNames, aa)
		}
	}

	bbPts, bbTags := []r3.Vec{}, []int{}
	caPts, caTags := []r3.Vec{}, []int{}
	for _, id := range s.Residues() {
		if !structure.IsAminoAcid(s.Residue(id).Name) {
			continue
		}

		if ca, ok := s.FindAtom(id, "CA"); ok {
			e.caPos[id] = ca.Coords
			caPts = append(caPts, ca.Coords)
			caTags = append(caTags, int(id))
		}

		bb, ok := s.Backbone(id)
		if !ok {
			continue
		}
		e.bbPos[id] = bb
		e.residues = append(e.residues, id)
		for _, x := range bb {
			bbPts = append(bbPts, x)
			bbTags = append(bbTags, int(id))
		}
	}

	e.bbNN = geom.NewSearchDist(bbPts, p.ClashDist, bbTags, 0)
	e.caNN = geom.NewSearchDist(caPts, p.Dcut, caTags, 0)
	return e, nil
}

// Structure returns the structure the engine was built from.
func (e *Engine) Structure() *structure.Structure { return e.s }

// Params returns the engine's parameters.
func (e *Engine) Params() Params { return e.p }

// Residues returns every residue with a complete backbone, in structural
// order. These are the residues the engine can cache.
func (e *Engine) Residues() []structure.ResidueID {
	return append([]structure.ResidueID{}, e.residues...)
}

// State reports whether res has been cached.
func (e *Engine) State(res structure.ResidueID) Readiness {
	if e.s.Generation() != e.gen {
		return Stale
	}
	if e.s.Valid(res) && e.caches[res] != nil {
		return Cached
	}
	return Uncached
}

func (e *Engine) check(res structure.ResidueID) error {
	if e.s.Generation() != e.gen {
		return ErrStale
	}
	if !e.s.Valid(res) {
		return fmt.Errorf("%w: %d", ErrInvalidResidue, res)
	}
	return nil
}

func (e *Engine) label(res structure.ResidueID) string {
	return e.s.ResidueLabel(res)
}

func sortIDs(ids []structure.ResidueID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// uniqueIDs sorts ids and removes duplicates in place.
func uniqueIDs(ids []structure.ResidueID) []structure.ResidueID {
	sortIDs(ids)
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}

func pairOf(a, b structure.ResidueID) residuePair {
	if a > b {
		return residuePair{b, a}
	}
	return residuePair{a, b}
}
