package condeg

import (
	"fmt"
	"sort"

	"github.com/phil-mansfield/confind/structure"
)

// Contact is a single record of a ContactList.
type Contact struct {
	Src, Dst    structure.ResidueID
	Degree      float64
	Info        string
	Directional bool
}

type residuePair struct {
	a, b structure.ResidueID
}

func (p residuePair) less(q residuePair) bool {
	if p.a == q.a {
		return p.b < q.b
	}
	return p.a < q.a
}

// ContactList is an ordered collection of pairwise residue relations. Records
// are stored in parallel arrays and are only ever appended, except for
// SortByDegree, which reorders all of them at once.
type ContactList struct {
	src, dst    []structure.ResidueID
	degrees     []float64
	infos       []string
	directional []bool

	inContact map[structure.ResidueID]map[structure.ResidueID]int
	// ordered is kept sorted by (a, b); non-directional pairs are stored with
	// the lower residue id first.
	ordered []residuePair
}

// NewContactList returns an empty ContactList.
func NewContactList() *ContactList {
	return &ContactList{
		inContact: map[structure.ResidueID]map[structure.ResidueID]int{},
	}
}

// Add appends a contact between src and dst. Non-directional contacts can be
// looked up in either order.
func (cl *ContactList) Add(
	src, dst structure.ResidueID, degree float64, info string, directional bool,
) {
	cl.src = append(cl.src, src)
	cl.dst = append(cl.dst, dst)
	cl.degrees = append(cl.degrees, degree)
	cl.infos = append(cl.infos, info)
	cl.directional = append(cl.directional, directional)
	cl.index(len(cl.src) - 1)
}

func (cl *ContactList) index(i int) {
	src, dst := cl.src[i], cl.dst[i]
	cl.link(src, dst, i)
	if !cl.directional[i] {
		cl.link(dst, src, i)
	}

	p := residuePair{src, dst}
	if !cl.directional[i] && src > dst {
		p = residuePair{dst, src}
	}
	cl.insertOrdered(p)
}

func (cl *ContactList) link(a, b structure.ResidueID, i int) {
	m, ok := cl.inContact[a]
	if !ok {
		m = map[structure.ResidueID]int{}
		cl.inContact[a] = m
	}
	m[b] = i
}

func (cl *ContactList) insertOrdered(p residuePair) {
	j := sort.Search(len(cl.ordered), func(k int) bool {
		return !cl.ordered[k].less(p)
	})
	if j < len(cl.ordered) && cl.ordered[j] == p {
		return
	}
	cl.ordered = append(cl.ordered, residuePair{})
	copy(cl.ordered[j+1:], cl.ordered[j:])
	cl.ordered[j] = p
}

// Len returns the number of records.
func (cl *ContactList) Len() int { return len(cl.src) }

func (cl *ContactList) Src(i int) structure.ResidueID { return cl.src[i] }
func (cl *ContactList) Dst(i int) structure.ResidueID { return cl.dst[i] }
func (cl *ContactList) DegreeAt(i int) float64       { return cl.degrees[i] }
func (cl *ContactList) Info(i int) string            { return cl.infos[i] }
func (cl *ContactList) Directional(i int) bool       { return cl.directional[i] }

// Contact returns the i-th record.
func (cl *ContactList) Contact(i int) Contact {
	return Contact{
		cl.src[i], cl.dst[i], cl.degrees[i], cl.infos[i], cl.directional[i],
	}
}

// SrcResidues returns the source residue of every record.
func (cl *ContactList) SrcResidues() []structure.ResidueID {
	return append([]structure.ResidueID{}, cl.src...)
}

// DstResidues returns the destination residue of every record.
func (cl *ContactList) DstResidues() []structure.ResidueID {
	return append([]structure.ResidueID{}, cl.dst...)
}

// OrderedContacts returns every distinct pair in the list ordered by the
// structural index of the first residue and then of the second. Each
// non-directional pair appears once, lower index first.
func (cl *ContactList) OrderedContacts() [][2]structure.ResidueID {
	out := make([][2]structure.ResidueID, len(cl.ordered))
	for i, p := range cl.ordered {
		out[i] = [2]structure.ResidueID{p.a, p.b}
	}
	return out
}

// AreInContact returns true if the list holds a record for a and b in either
// order.
func (cl *ContactList) AreInContact(a, b structure.ResidueID) bool {
	if _, ok := cl.inContact[a][b]; ok {
		return true
	}
	_, ok := cl.inContact[b][a]
	return ok
}

// Lookup returns the degree of the record for (a, b).
func (cl *ContactList) Lookup(a, b structure.ResidueID) (float64, bool) {
	i, ok := cl.inContact[a][b]
	if !ok {
		return 0, false
	}
	return cl.degrees[i], true
}

// Degree returns the degree of the record for (a, b). Asking for a pair that
// is not in the list is a programming error and panics; use Lookup when the
// pair might be missing.
func (cl *ContactList) Degree(a, b structure.ResidueID) float64 {
	d, ok := cl.Lookup(a, b)
	if !ok {
		panic(fmt.Sprintf(
			"Residues %d and %d are not in the contact list.", a, b,
		))
	}
	return d
}

// byDegree allows for the parallel arrays of a ContactList to be sorted
// simultaneously.
type byDegree ContactList

func (cl *byDegree) Len() int           { return len(cl.degrees) }
func (cl *byDegree) Less(i, j int) bool { return cl.degrees[i] < cl.degrees[j] }
func (cl *byDegree) Swap(i, j int) {
	cl.src[i], cl.src[j] = cl.src[j], cl.src[i]
	cl.dst[i], cl.dst[j] = cl.dst[j], cl.dst[i]
	cl.degrees[i], cl.degrees[j] = cl.degrees[j], cl.degrees[i]
	cl.infos[i], cl.infos[j] = cl.infos[j], cl.infos[i]
	cl.directional[i], cl.directional[j] = cl.directional[j], cl.directional[i]
}

// SortByDegree reorders the records from highest to lowest degree. Records of
// equal degree keep their relative order.
func (cl *ContactList) SortByDegree() {
	sort.Stable(sort.Reverse((*byDegree)(cl)))

	cl.inContact = map[structure.ResidueID]map[structure.ResidueID]int{}
	cl.ordered = cl.ordered[:0]
	for i := range cl.src {
		cl.index(i)
	}
}
