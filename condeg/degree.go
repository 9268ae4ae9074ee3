package condeg

import (
	"sort"

	"github.com/phil-mansfield/confind/structure"
)

// clashPairs returns every pair of surviving rotamers of a and b with side
// chains within ContDist of each other. Pairs are oriented from the lower
// residue id to the higher one. Both residues must already be cached.
func (e *Engine) clashPairs(a, b structure.ResidueID) []rotamerPair {
	key := pairOf(a, b)
	if pairs, ok := e.clashes[key]; ok {
		return pairs
	}

	lo, hi := e.caches[key.a], e.caches[key.b]
	pairs := []rotamerPair{}
	for _, q := range hi.survivors {
		hit := map[int]bool{}
		for _, x := range q.atoms {
			for _, p := range lo.sc.TagsWithin(x, 0, e.p.ContDist) {
				hit[p.slot] = true
			}
		}

		slots := make([]int, 0, len(hit))
		for slot := range hit {
			slots = append(slots, slot)
		}
		sort.Ints(slots)
		for _, slot := range slots {
			pairs = append(pairs, rotamerPair{slot, q.slot})
		}
	}

	e.clashes[key] = pairs
	return pairs
}

// ContactDegree returns the weighted fraction of surviving rotamer pairs of a
// and b whose side chains come within ContDist of each other. Residues which
// are not neighbors have a degree of zero. Both residues are cached if they
// are not already.
func (e *Engine) ContactDegree(a, b structure.ResidueID) (float64, error) {
	if err := e.check(a); err != nil {
		return 0, err
	} else if err := e.check(b); err != nil {
		return 0, err
	}
	if !e.AreNeighbors(a, b) {
		return 0, nil
	}

	key := pairOf(a, b)
	if d, ok := e.degrees[key]; ok {
		return d, nil
	}

	lo, err := e.cache(key.a)
	if err != nil {
		return 0, err
	}
	hi, err := e.cache(key.b)
	if err != nil {
		return 0, err
	}

	d := 0.0
	if lo.availWeight > 0 && hi.availWeight > 0 {
		for _, pr := range e.clashPairs(key.a, key.b) {
			d += lo.survivors[pr.a].weight * hi.survivors[pr.b].weight
		}
		d /= lo.availWeight * hi.availWeight
	}

	e.degrees[key] = d
	return d, nil
}

// Contacts appends to list every neighbor of res whose contact degree with res
// exceeds cut. If list is nil, a new list is allocated.
func (e *Engine) Contacts(
	res structure.ResidueID, cut float64, list *ContactList,
) (*ContactList, error) {
	return e.ContactsFor([]structure.ResidueID{res}, cut, list)
}

// ContactsFor appends to list every pair made of a residue in ids and one of
// its neighbors whose contact degree exceeds cut. Each unordered pair is
// recorded once, lower residue id first, and pairs already present in list are
// skipped.
func (e *Engine) ContactsFor(
	ids []structure.ResidueID, cut float64, list *ContactList,
) (*ContactList, error) {
	if list == nil {
		list = NewContactList()
	}

	seen := map[residuePair]bool{}
	for _, res := range ids {
		c, err := e.cache(res)
		if err != nil {
			return nil, err
		}

		for _, nb := range c.neighbors {
			key := pairOf(res, nb)
			if seen[key] || list.AreInContact(res, nb) {
				continue
			}
			seen[key] = true

			d, err := e.ContactDegree(res, nb)
			if err != nil {
				return nil, err
			}
			if d > cut {
				list.Add(key.a, key.b, d, "", false)
			}
		}
	}
	return list, nil
}

// AllContacts appends every contact in the structure with a degree above cut.
func (e *Engine) AllContacts(cut float64, list *ContactList) (*ContactList, error) {
	return e.ContactsFor(e.residues, cut, list)
}

// ContactingResidues returns the neighbors of res whose contact degree with
// res exceeds cut.
func (e *Engine) ContactingResidues(
	res structure.ResidueID, cut float64,
) ([]structure.ResidueID, error) {
	c, err := e.cache(res)
	if err != nil {
		return nil, err
	}

	out := []structure.ResidueID{}
	for _, nb := range c.neighbors {
		d, err := e.ContactDegree(res, nb)
		if err != nil {
			return nil, err
		}
		if d > cut {
			out = append(out, nb)
		}
	}
	return out, nil
}
