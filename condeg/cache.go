package condeg

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/confind/geom"
	"github.com/phil-mansfield/confind/rotlib"
	"github.com/phil-mansfield/confind/structure"
)

// RotamerID identifies a rotamer within the library.
type RotamerID struct {
	AA    string
	Index int
}

func (id RotamerID) String() string { return fmt.Sprintf("%s:%d", id.AA, id.Index) }

// SurvivingRotamer is a rotamer which does not clash with any backbone.
type SurvivingRotamer struct {
	RotamerID
	Weight float64
}

// survivor is a rotamer placed at a residue which passed pruning. slot is its
// position in residueCache.survivors.
type survivor struct {
	id     RotamerID
	weight float64
	atoms  []r3.Vec
	slot   int
}

type rotamerPair struct {
	a, b int
}

type residueCache struct {
	neighbors []structure.ResidueID
	permanent []structure.ResidueID

	numLib      int
	libWeight   float64
	pruned      float64
	survivors   []*survivor
	availWeight float64
	// sc holds the side-chain atoms of every survivor.
	sc *geom.TaggedSearch[*survivor]
	// interference maps a residue to the fraction of library weight pruned by
	// its backbone.
	interference map[structure.ResidueID]float64

	collProb    []float64
	freedomDone bool
	freedom     float64
	crowdedness float64
}

func (c *residueCache) considered() bool { return c.numLib > 0 }

// Cache places and prunes the rotamers of res and finds its neighbors. It
// does nothing if res is already cached.
func (e *Engine) Cache(res structure.ResidueID) error {
	_, err := e.cache(res)
	return err
}

// CacheResidues caches every residue in ids.
func (e *Engine) CacheResidues(ids []structure.ResidueID) error {
	for _, id := range ids {
		if err := e.Cache(id); err != nil {
			return err
		}
	}
	return nil
}

// CacheAll caches every residue with a complete backbone.
func (e *Engine) CacheAll() error {
	return e.CacheResidues(e.residues)
}

func (e *Engine) cache(res structure.ResidueID) (*residueCache, error) {
	if err := e.check(res); err != nil {
		return nil, err
	}
	if c := e.caches[res]; c != nil {
		return c, nil
	}

	bb, ok := e.bbPos[res]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBackbone, e.label(res))
	}

	c := &residueCache{interference: map[structure.ResidueID]float64{}}
	c.neighbors = e.neighbors(res)
	c.permanent = e.permanentContacts(res, bb)
	if err := e.placeRotamers(res, c); err != nil {
		return nil, err
	}

	e.caches[res] = c
	return c, nil
}

// neighbors returns every cacheable residue whose CA is within Dcut of the
// CA of res.
func (e *Engine) neighbors(res structure.ResidueID) []structure.ResidueID {
	ca, ok := e.caPos[res]
	if !ok {
		return nil
	}

	out := []structure.ResidueID{}
	for _, tag := range e.caNN.PointsWithin(ca, 0, e.p.Dcut, true) {
		id := structure.ResidueID(tag)
		if _, ok := e.bbPos[id]; ok && id != res {
			out = append(out, id)
		}
	}
	return uniqueIDs(out)
}

// permanentContacts returns the residues with a backbone atom within ClashDist
// of a backbone atom of res. Sequence-adjacent residues of the same chain are
// always that close and are skipped.
func (e *Engine) permanentContacts(
	res structure.ResidueID, bb [4]r3.Vec,
) []structure.ResidueID {
	out := []structure.ResidueID{}
	for _, x := range bb {
		for _, tag := range e.bbNN.PointsWithin(x, 0, e.p.ClashDist, true) {
			id := structure.ResidueID(tag)
			if id != res && e.s.SequenceSeparation(res, id) != 1 {
				out = append(out, id)
			}
		}
	}
	return uniqueIDs(out)
}

func (e *Engine) candidates(res structure.ResidueID) []string {
	if e.p.DesignMode {
		return e.aaNames
	}
	aa := e.s.Residue(res).Name
	if e.p.excluded(aa) {
		return nil
	}
	return []string{aa}
}

func (e *Engine) sideChain(aa string, atoms []rotlib.Atom) []r3.Vec {
	out := []r3.Vec{}
	for _, a := range atoms {
		if structure.IsHydrogen(a.Name) || structure.IsBackbone(a.Name) {
			continue
		}
		if a.Name == "CB" && !e.p.CountCB && aa != "ALA" {
			continue
		}
		out = append(out, a.Coords)
	}
	return out
}

func (e *Engine) placeRotamers(res structure.ResidueID, c *residueCache) error {
	prunedWeight := 0.0
	for _, aa := range e.candidates(res) {
		rots, err := e.lib.Rotamers(e.s, res, aa)
		if err != nil {
			return fmt.Errorf("placing %s rotamers at %s: %w", aa, e.label(res), err)
		}

		scale := 1.0
		if e.p.DesignMode {
			scale = e.p.Propensity[aa] / 100
		}

		for _, rot := range rots {
			w := rot.Weight * scale
			c.numLib++
			c.libWeight += w

			atoms := e.sideChain(aa, rot.Atoms)
			clashed := e.backboneClashes(res, atoms)
			id := RotamerID{aa, rot.Index}

			if len(clashed) > 0 {
				prunedWeight += w
				for _, other := range clashed {
					c.interference[other] += w
				}
				e.logRotamer(res, id, w, clashed)
				continue
			}

			c.survivors = append(c.survivors, &survivor{
				id: id, weight: w, atoms: atoms, slot: len(c.survivors),
			})
			c.availWeight += w
			e.logRotamer(res, id, w, nil)
		}
	}

	if c.libWeight > 0 {
		c.pruned = prunedWeight / c.libWeight
		for other := range c.interference {
			c.interference[other] /= c.libWeight
		}
	}

	pts, vals := []r3.Vec{}, []*survivor{}
	for _, surv := range c.survivors {
		for _, x := range surv.atoms {
			pts = append(pts, x)
			vals = append(vals, surv)
		}
	}
	c.sc = geom.NewTaggedSearchDist(pts, e.p.ContDist, vals, 0)
	return nil
}

// backboneClashes returns the residues other than res with a backbone atom
// within ClashDist of any of atoms.
func (e *Engine) backboneClashes(
	res structure.ResidueID, atoms []r3.Vec,
) []structure.ResidueID {
	out := []structure.ResidueID{}
	for _, x := range atoms {
		for _, tag := range e.bbNN.PointsWithin(x, 0, e.p.ClashDist, true) {
			if id := structure.ResidueID(tag); id != res {
				out = append(out, id)
			}
		}
	}
	return uniqueIDs(out)
}

// Neighbors returns the residues whose CA lies within Dcut of the CA of res.
func (e *Engine) Neighbors(res structure.ResidueID) ([]structure.ResidueID, error) {
	c, err := e.cache(res)
	if err != nil {
		return nil, err
	}
	return append([]structure.ResidueID{}, c.neighbors...), nil
}

// NeighborsOf returns the union of the neighbors of every residue in ids.
func (e *Engine) NeighborsOf(ids []structure.ResidueID) ([]structure.ResidueID, error) {
	out := []structure.ResidueID{}
	for _, id := range ids {
		nbs, err := e.Neighbors(id)
		if err != nil {
			return nil, err
		}
		out = append(out, nbs...)
	}
	return uniqueIDs(out), nil
}

// AreNeighbors returns true if a and b are distinct and their CAs are within
// Dcut of each other.
func (e *Engine) AreNeighbors(a, b structure.ResidueID) bool {
	ca, okA := e.caPos[a]
	cb, okB := e.caPos[b]
	return okA && okB && a != b && geom.Dist(ca, cb) <= e.p.Dcut
}

// PermanentContacts returns the residues whose backbone clashes with the
// backbone of res, excluding sequence-adjacent residues.
func (e *Engine) PermanentContacts(res structure.ResidueID) ([]structure.ResidueID, error) {
	c, err := e.cache(res)
	if err != nil {
		return nil, err
	}
	return append([]structure.ResidueID{}, c.permanent...), nil
}

// SurvivingRotamers returns the rotamers of res which do not clash with any
// backbone.
func (e *Engine) SurvivingRotamers(res structure.ResidueID) ([]SurvivingRotamer, error) {
	c, err := e.cache(res)
	if err != nil {
		return nil, err
	}
	out := make([]SurvivingRotamer, len(c.survivors))
	for i, surv := range c.survivors {
		out[i] = SurvivingRotamer{surv.id, surv.weight}
	}
	return out, nil
}

// FractionPruned returns the fraction of the library weight of res removed by
// backbone clashes.
func (e *Engine) FractionPruned(res structure.ResidueID) (float64, error) {
	c, err := e.cache(res)
	if err != nil {
		return 0, err
	}
	return c.pruned, nil
}

// NumLibraryRotamers returns the number of rotamers enumerated at res before
// pruning.
func (e *Engine) NumLibraryRotamers(res structure.ResidueID) (int, error) {
	c, err := e.cache(res)
	if err != nil {
		return 0, err
	}
	return c.numLib, nil
}

func (e *Engine) logRotamer(
	res structure.ResidueID, id RotamerID, w float64,
	clashed []structure.ResidueID,
) {
	if e.rotLog == nil {
		return
	}
	if len(clashed) == 0 {
		e.rotLog.Printf("%s\t%s\t%.6f\tsurvived", e.label(res), id, w)
		return
	}

	keys := make([]string, len(clashed))
	for i, other := range clashed {
		keys[i] = e.s.ResidueKey(other)
	}
	sort.Strings(keys)
	e.rotLog.Printf(
		"%s\t%s\t%.6f\tpruned by %s", e.label(res), id, w, strings.Join(keys, " "),
	)
}
