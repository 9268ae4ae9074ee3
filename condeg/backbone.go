package condeg

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/confind/geom"
	"github.com/phil-mansfield/confind/structure"
)

// BackboneInfo is the Info string of backbone-backbone interaction records.
const BackboneInfo = "bb"

// BBInteraction returns the smallest distance between a backbone atom of a and
// a backbone atom of b.
func (e *Engine) BBInteraction(a, b structure.ResidueID) (float64, error) {
	if err := e.check(a); err != nil {
		return 0, err
	} else if err := e.check(b); err != nil {
		return 0, err
	}

	bbA, okA := e.bbPos[a]
	bbB, okB := e.bbPos[b]
	if !okA {
		return 0, fmt.Errorf("%w: %s", ErrMissingBackbone, e.label(a))
	} else if !okB {
		return 0, fmt.Errorf("%w: %s", ErrMissingBackbone, e.label(b))
	}

	dmin := math.Inf(+1)
	for _, x := range bbA {
		for _, y := range bbB {
			dmin = math.Min(dmin, geom.Dist(x, y))
		}
	}
	return dmin, nil
}

// BBInteractions appends a record for every pair made of a residue in ids and
// any other residue with backbones within dcut of each other. Residues of the
// same chain separated by ignoreFlanking or fewer positions are skipped. The
// degree of each record is the backbone distance.
func (e *Engine) BBInteractions(
	ids []structure.ResidueID, dcut float64, ignoreFlanking int,
	list *ContactList,
) (*ContactList, error) {
	if !positive(dcut) {
		return nil, fmt.Errorf("Backbone cutoff must be positive, not %g.", dcut)
	}
	if list == nil {
		list = NewContactList()
	}

	seen := map[residuePair]bool{}
	for _, res := range ids {
		others, err := e.bbCandidates(res, dcut, ignoreFlanking)
		if err != nil {
			return nil, err
		}

		for _, other := range others {
			key := pairOf(res, other)
			if seen[key] || list.AreInContact(res, other) {
				continue
			}
			seen[key] = true

			d, err := e.BBInteraction(res, other)
			if err != nil {
				return nil, err
			}
			if d <= dcut {
				list.Add(key.a, key.b, d, BackboneInfo, false)
			}
		}
	}
	return list, nil
}

// AllBBInteractions appends every backbone-backbone interaction in the
// structure.
func (e *Engine) AllBBInteractions(
	dcut float64, ignoreFlanking int, list *ContactList,
) (*ContactList, error) {
	return e.BBInteractions(e.residues, dcut, ignoreFlanking, list)
}

// BBInteractingResidues returns the residues whose backbone is within dcut of
// the backbone of res.
func (e *Engine) BBInteractingResidues(
	res structure.ResidueID, dcut float64, ignoreFlanking int,
) ([]structure.ResidueID, error) {
	if !positive(dcut) {
		return nil, fmt.Errorf("Backbone cutoff must be positive, not %g.", dcut)
	}
	return e.bbCandidates(res, dcut, ignoreFlanking)
}

func (e *Engine) bbCandidates(
	res structure.ResidueID, dcut float64, ignoreFlanking int,
) ([]structure.ResidueID, error) {
	if err := e.check(res); err != nil {
		return nil, err
	}
	bb, ok := e.bbPos[res]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBackbone, e.label(res))
	}

	out := []structure.ResidueID{}
	for _, x := range bb {
		for _, tag := range e.bbNN.PointsWithin(x, 0, dcut, true) {
			id := structure.ResidueID(tag)
			if id == res {
				continue
			}
			if sep := e.s.SequenceSeparation(res, id); sep >= 0 && sep <= ignoreFlanking {
				continue
			}
			out = append(out, id)
		}
	}
	return uniqueIDs(out), nil
}
