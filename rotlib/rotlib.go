/*Package rotlib supplies side-chain rotamers placed onto residue backbones.

Library is the interface the contact engine consumes. Table is a library whose
rotamers are stored in the local frame of each residue's backbone and read
from a gcfg index file plus one numeric table per amino acid.
*/
package rotlib

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/confind/structure"
)

var (
	ErrUnknownAminoAcid = errors.New("rotlib: unknown amino acid")
	ErrMissingBackbone  = errors.New("rotlib: residue is missing backbone atoms")
	ErrDegenerateFrame  = errors.New("rotlib: degenerate backbone frame")
)

type Atom struct {
	Name   string
	Coords r3.Vec
}

// Rotamer is one side-chain conformation of an amino acid. Weights of all
// rotamers returned for one amino acid sum to one.
type Rotamer struct {
	AA     string
	Index  int
	Weight float64
	Atoms  []Atom
}

// Library is a source of rotamers.
type Library interface {
	// AminoAcids lists the amino acids the library has rotamers for.
	AminoAcids() []string
	// Rotamers returns every rotamer of aa placed onto the backbone of res.
	// Amino acids the library does not know give an error wrapping
	// ErrUnknownAminoAcid.
	Rotamers(
		s *structure.Structure, res structure.ResidueID, aa string,
	) ([]Rotamer, error)
}

// Frame is an orthonormal coordinate system attached to a residue backbone.
// The origin is CA, U points towards N, W is normal to the N-CA-C plane and
// V completes a right-handed system.
type Frame struct {
	Origin, U, V, W r3.Vec
}

// NewFrame builds the frame of a backbone from its N, CA and C positions.
func NewFrame(n, ca, c r3.Vec) (Frame, error) {
	u := r3.Sub(n, ca)
	w := r3.Cross(u, r3.Sub(c, ca))
	if r3.Norm(u) < 1e-8 || r3.Norm(w) < 1e-8 {
		return Frame{}, ErrDegenerateFrame
	}

	u, w = r3.Unit(u), r3.Unit(w)
	return Frame{Origin: ca, U: u, V: r3.Cross(w, u), W: w}, nil
}

// ResidueFrame builds the backbone frame of a residue.
func ResidueFrame(s *structure.Structure, res structure.ResidueID) (Frame, error) {
	var xs [3]r3.Vec
	for i, name := range []string{"N", "CA", "C"} {
		a, ok := s.FindAtom(res, name)
		if !ok {
			return Frame{}, fmt.Errorf(
				"%w: %s has no %s", ErrMissingBackbone, s.ResidueLabel(res), name,
			)
		}
		xs[i] = a.Coords
	}

	f, err := NewFrame(xs[0], xs[1], xs[2])
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %s", err, s.ResidueLabel(res))
	}
	return f, nil
}

// ToGlobal converts local frame coordinates into global coordinates.
func (f *Frame) ToGlobal(local r3.Vec) r3.Vec {
	v := r3.Add(r3.Scale(local.X, f.U), r3.Scale(local.Y, f.V))
	v = r3.Add(v, r3.Scale(local.Z, f.W))
	return r3.Add(f.Origin, v)
}

// ToLocal converts global coordinates into local frame coordinates.
func (f *Frame) ToLocal(global r3.Vec) r3.Vec {
	d := r3.Sub(global, f.Origin)
	return r3.Vec{X: r3.Dot(d, f.U), Y: r3.Dot(d, f.V), Z: r3.Dot(d, f.W)}
}

// TotalWeight sums the weights of rots.
func TotalWeight(rots []Rotamer) float64 {
	sum := 0.0
	for i := range rots {
		sum += rots[i].Weight
	}
	return sum
}

func checkWeight(w float64) error {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("rotamer weight must be a non-negative number, not %g", w)
	}
	return nil
}
