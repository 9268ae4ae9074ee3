package condeg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/confind/structure"
)

func TestContactListLookup(t *testing.T) {
	cl := NewContactList()
	cl.Add(1, 4, 0.5, "", false)
	cl.Add(7, 2, 0.25, InterferenceInfo, true)

	assert.Equal(t, 2, cl.Len())
	assert.True(t, cl.AreInContact(1, 4))
	assert.True(t, cl.AreInContact(4, 1))
	assert.True(t, cl.AreInContact(2, 7))
	assert.False(t, cl.AreInContact(1, 2))

	d, ok := cl.Lookup(4, 1)
	assert.True(t, ok)
	assert.Equal(t, 0.5, d)

	_, ok = cl.Lookup(2, 7)
	assert.False(t, ok, "directional records only match in their own order")
	assert.Equal(t, 0.25, cl.Degree(7, 2))
	assert.Panics(t, func() { cl.Degree(2, 7) })

	c := cl.Contact(1)
	assert.Equal(t, Contact{7, 2, 0.25, InterferenceInfo, true}, c)
	assert.Equal(t, []structure.ResidueID{1, 7}, cl.SrcResidues())
	assert.Equal(t, []structure.ResidueID{4, 2}, cl.DstResidues())
}

func TestContactListOrdered(t *testing.T) {
	cl := NewContactList()
	cl.Add(5, 3, 0.1, "", false)
	cl.Add(1, 9, 0.2, "", false)
	cl.Add(3, 5, 0.3, "", false)
	cl.Add(5, 3, 0.4, InterferenceInfo, true)
	cl.Add(1, 2, 0.5, "", false)

	exp := [][2]structure.ResidueID{{1, 2}, {1, 9}, {3, 5}, {5, 3}}
	assert.Equal(t, exp, cl.OrderedContacts())
}

func TestContactListSortByDegree(t *testing.T) {
	cl := NewContactList()
	degrees := []float64{0.3, 0.9, 0.1, 0.9, 0.5}
	infos := []string{"", InterferenceInfo, BackboneInfo, "", InterferenceInfo}
	directional := []bool{false, true, false, false, true}
	for i, d := range degrees {
		src, dst := structure.ResidueID(i), structure.ResidueID(i+10)
		cl.Add(src, dst, d, infos[i], directional[i])
	}
	ordered := cl.OrderedContacts()

	cl.SortByDegree()

	assert.Equal(t, 5, cl.Len())
	got := []float64{}
	for i := 0; i < cl.Len(); i++ {
		got = append(got, cl.DegreeAt(i))
	}
	assert.Equal(t, []float64{0.9, 0.9, 0.5, 0.3, 0.1}, got)
	assert.Equal(t, structure.ResidueID(1), cl.Src(0), "sort is stable")
	assert.Equal(t, structure.ResidueID(3), cl.Src(1), "sort is stable")

	for k := 0; k < cl.Len(); k++ {
		i := int(cl.Src(k))
		src, dst := structure.ResidueID(i), structure.ResidueID(i+10)
		assert.Equal(t, dst, cl.Dst(k))
		assert.Equal(t, degrees[i], cl.DegreeAt(k))
		assert.Equal(t, infos[i], cl.Info(k), "record %d", k)
		assert.Equal(t, directional[i], cl.Directional(k), "record %d", k)
		assert.Equal(t, Contact{src, dst, degrees[i], infos[i], directional[i]}, cl.Contact(k))

		d, ok := cl.Lookup(src, dst)
		assert.True(t, ok)
		assert.Equal(t, degrees[i], d)

		d, ok = cl.Lookup(dst, src)
		if directional[i] {
			assert.False(t, ok, "directional record %d matched in reverse", i)
		} else {
			assert.True(t, ok)
			assert.Equal(t, degrees[i], d)
		}
	}
	assert.Equal(t, ordered, cl.OrderedContacts())
}
