package condeg

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/confind/structure"
)

// collProbWriter grants write access to the collision probabilities of one
// residue. Only one writer per residue may be open at a time.
type collProbWriter struct {
	e     *Engine
	res   structure.ResidueID
	probs []float64
}

func (e *Engine) openCollProb(res structure.ResidueID) *collProbWriter {
	if e.updating[res] {
		panic(fmt.Sprintf(
			"Collision probabilities of %s are already being written.",
			e.label(res),
		))
	}
	c := e.caches[res]
	c.collProb = make([]float64, len(c.survivors))
	e.updating[res] = true
	return &collProbWriter{e, res, c.collProb}
}

func (w *collProbWriter) add(slot int, p float64) {
	if w.probs == nil {
		panic("Write to released collision probability table.")
	}
	w.probs[slot] += p
}

func (w *collProbWriter) release() {
	delete(w.e.updating, w.res)
	w.probs = nil
}

// fillCollProb sets the collision probability of every surviving rotamer r of
// res: the sum over neighbors of the weight fraction of the neighbor's
// surviving rotamers which clash with r.
func (e *Engine) fillCollProb(res structure.ResidueID, c *residueCache) error {
	for _, nb := range c.neighbors {
		if _, err := e.cache(nb); err != nil {
			return err
		}
	}

	w := e.openCollProb(res)
	defer w.release()

	for _, nb := range c.neighbors {
		nc := e.caches[nb]
		if nc.availWeight == 0 {
			continue
		}
		resIsLo := res < nb
		for _, pr := range e.clashPairs(res, nb) {
			mine, theirs := pr.a, pr.b
			if !resIsLo {
				mine, theirs = pr.b, pr.a
			}
			w.add(mine, nc.survivors[theirs].weight/nc.availWeight)
		}
	}
	return nil
}

// freedomFactor maps a collision probability onto [0, 1]: 1 below lo, 0 at
// or above hi, and logarithmic in between.
func freedomFactor(p, lo, hi float64) float64 {
	switch {
	case p < lo:
		return 1
	case p >= hi:
		return 0
	}
	return math.Log(hi/p) / math.Log(hi/lo)
}

func (e *Engine) scoreFreedom(c *residueCache) {
	lo, hi := e.p.LoCollProbCut, e.p.HiCollProbCut

	switch e.p.FreedomType {
	case FreedomCount:
		n := 0.0
		for _, p := range c.collProb {
			if p < lo {
				n++
			} else if p < hi {
				n += 0.5
			}
		}
		c.freedom = n / float64(c.numLib)
	default:
		sum := 0.0
		for i, surv := range c.survivors {
			sum += surv.weight * freedomFactor(c.collProb[i], lo, hi)
		}
		c.freedom = 0
		if c.libWeight > 0 {
			c.freedom = sum / c.libWeight
		}
	}

	if c.availWeight == 0 {
		c.crowdedness = 1
		return
	}
	sum := 0.0
	for i, surv := range c.survivors {
		sum += surv.weight * math.Min(1, c.collProb[i])
	}
	c.crowdedness = c.pruned + (1-c.pruned)*sum/c.availWeight
}

func (e *Engine) score(res structure.ResidueID) (*residueCache, error) {
	c, err := e.cache(res)
	if err != nil {
		return nil, err
	}
	if !c.considered() {
		return nil, fmt.Errorf("%w: %s", ErrNotConsidered, e.label(res))
	}
	if c.freedomDone {
		return c, nil
	}

	if err := e.fillCollProb(res, c); err != nil {
		return nil, err
	}
	e.scoreFreedom(c)
	c.freedomDone = true
	return c, nil
}

// Freedom returns how much conformational freedom the side chain of res has
// left once its neighbors' side chains are accounted for. Zero means no
// rotamer is free and one means every library rotamer is. Residues without
// rotamers give ErrNotConsidered.
func (e *Engine) Freedom(res structure.ResidueID) (float64, error) {
	c, err := e.score(res)
	if err != nil {
		return 0, err
	}
	return c.freedom, nil
}

// FreedomOf returns the freedom of every residue in ids.
func (e *Engine) FreedomOf(ids []structure.ResidueID) ([]float64, error) {
	out := make([]float64, len(ids))
	for i, id := range ids {
		f, err := e.Freedom(id)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// Crowdedness returns the weighted fraction of the library rotamers of res
// which are either pruned or expected to collide with a neighbor.
func (e *Engine) Crowdedness(res structure.ResidueID) (float64, error) {
	c, err := e.score(res)
	if err != nil {
		return 0, err
	}
	return c.crowdedness, nil
}

// CrowdednessOf returns the crowdedness of every residue in ids.
func (e *Engine) CrowdednessOf(ids []structure.ResidueID) ([]float64, error) {
	out := make([]float64, len(ids))
	for i, id := range ids {
		f, err := e.Crowdedness(id)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// ClearFreedom forgets every computed freedom, crowdedness and collision
// probability.
func (e *Engine) ClearFreedom() {
	for _, c := range e.caches {
		if c != nil {
			c.collProb = nil
			c.freedomDone = false
		}
	}
}

// SetFreedomParams changes the collision probability cutoffs and the freedom
// type. Previously computed freedoms are cleared.
func (e *Engine) SetFreedomParams(lo, hi float64, freedomType int) error {
	if err := validateFreedom(lo, hi, freedomType); err != nil {
		return err
	}
	e.p.LoCollProbCut, e.p.HiCollProbCut = lo, hi
	e.p.FreedomType = freedomType
	e.ClearFreedom()
	return nil
}
