package condeg

import (
	"github.com/phil-mansfield/confind/structure"
)

// InterferenceInfo is the Info string of interference records.
const InterferenceInfo = "interference"

// InterferenceValue returns the fraction of the library weight of a pruned by
// clashes with the backbone of b.
func (e *Engine) InterferenceValue(a, b structure.ResidueID) (float64, error) {
	if err := e.check(b); err != nil {
		return 0, err
	}
	c, err := e.cache(a)
	if err != nil {
		return 0, err
	}
	return c.interference[b], nil
}

// Interference appends a record (A, B) for every residue A whose rotamers are
// pruned by the backbone of a residue B in ids by more than cut. Records are
// directional: the side chain of A is interfered with by the backbone of B.
// Only neighbors of B are considered. A backbone further than Dcut from a CA
// can still prune its rotamers; InterferenceValue reports that, but neither
// batch query does.
func (e *Engine) Interference(
	ids []structure.ResidueID, cut float64, list *ContactList,
) (*ContactList, error) {
	if list == nil {
		list = NewContactList()
	}

	for _, b := range ids {
		if err := e.check(b); err != nil {
			return nil, err
		}
		for _, a := range e.neighbors(b) {
			if _, ok := list.Lookup(a, b); ok {
				continue
			}
			c, err := e.cache(a)
			if err != nil {
				return nil, err
			}
			if v := c.interference[b]; v > cut {
				list.Add(a, b, v, InterferenceInfo, true)
			}
		}
	}
	return list, nil
}

// Interfering appends a record (A, B) for every residue B whose backbone
// prunes the rotamers of a residue A in ids by more than cut. Only neighbors
// of A are considered, so the records agree with those of Interference.
func (e *Engine) Interfering(
	ids []structure.ResidueID, cut float64, list *ContactList,
) (*ContactList, error) {
	if list == nil {
		list = NewContactList()
	}

	for _, a := range ids {
		c, err := e.cache(a)
		if err != nil {
			return nil, err
		}

		for _, b := range c.neighbors {
			if _, ok := list.Lookup(a, b); ok {
				continue
			}
			if v := c.interference[b]; v > cut {
				list.Add(a, b, v, InterferenceInfo, true)
			}
		}
	}
	return list, nil
}
