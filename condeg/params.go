package condeg

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/confind/structure"
)

const (
	// FreedomCount counts low and intermediate collision probability
	// rotamers.
	FreedomCount = 1
	// FreedomWeighted sums rotamer weights, scaled down logarithmically
	// between the two collision probability cutoffs.
	FreedomWeighted = 2
)

// Params controls neighbor search, clash detection and freedom scoring.
type Params struct {
	// Dcut is the CA-CA distance beyond which residues are not considered
	// to interact.
	Dcut float64
	// ClashDist is the distance below which backbone atoms clash with each
	// other or with side-chain atoms.
	ClashDist float64
	// ContDist is the distance below which two side-chain atoms are in
	// contact.
	ContDist float64

	// Excluded lists amino acids whose rotamers are never considered.
	Excluded []string
	// DesignMode enumerates the rotamers of every considered amino acid at
	// every position, weighted by Propensity, instead of only the residue's
	// own amino acid.
	DesignMode bool
	// CountCB counts CB as a side-chain atom. It is always counted for ALA.
	CountCB bool
	// Propensity gives amino-acid frequencies in percent.
	Propensity map[string]float64

	LoCollProbCut, HiCollProbCut float64
	FreedomType                  int
}

// DefaultPropensity lists the natural abundance of each amino acid, in
// percent.
var DefaultPropensity = map[string]float64{
	"ALA": 7.73, "CYS": 1.84, "ASP": 5.82, "GLU": 6.61, "PHE": 4.05,
	"GLY": 7.11, "HIS": 2.35, "ILE": 5.66, "LYS": 6.27, "LEU": 8.83,
	"MET": 2.08, "ASN": 4.50, "PRO": 4.52, "GLN": 3.94, "ARG": 5.03,
	"SER": 6.13, "THR": 5.53, "VAL": 6.91, "TRP": 1.51, "TYR": 3.54,
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	prop := make(map[string]float64, len(DefaultPropensity))
	for aa, p := range DefaultPropensity {
		prop[aa] = p
	}

	return Params{
		Dcut:          25,
		ClashDist:     3,
		ContDist:      3,
		Excluded:      []string{"GLY", "PRO"},
		Propensity:    prop,
		LoCollProbCut: 0.01,
		HiCollProbCut: 0.5,
		FreedomType:   FreedomWeighted,
	}
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}

// Validate returns an error describing the first invalid parameter.
func (p *Params) Validate() error {
	if !positive(p.Dcut) {
		return fmt.Errorf("Dcut must be positive, not %g.", p.Dcut)
	} else if !positive(p.ClashDist) {
		return fmt.Errorf("ClashDist must be positive, not %g.", p.ClashDist)
	} else if !positive(p.ContDist) {
		return fmt.Errorf("ContDist must be positive, not %g.", p.ContDist)
	}

	if err := validateFreedom(
		p.LoCollProbCut, p.HiCollProbCut, p.FreedomType,
	); err != nil {
		return err
	}

	if p.DesignMode {
		for _, aa := range structure.StandardAminoAcids {
			if _, ok := p.Propensity[aa]; !ok && !p.excluded(aa) {
				return fmt.Errorf("No Propensity given for %s.", aa)
			}
		}
		for aa, prop := range p.Propensity {
			if prop < 0 || math.IsNaN(prop) {
				return fmt.Errorf(
					"Propensity of %s must be non-negative, not %g.", aa, prop,
				)
			}
		}
	}
	return nil
}

func validateFreedom(lo, hi float64, freedomType int) error {
	if !positive(lo) || !positive(hi) || lo >= hi {
		return fmt.Errorf(
			"Collision probability cutoffs must satisfy 0 < lo < hi, "+
				"but lo = %g and hi = %g.", lo, hi,
		)
	}
	if freedomType != FreedomCount && freedomType != FreedomWeighted {
		return fmt.Errorf(
			"FreedomType must be %d or %d, not %d.",
			FreedomCount, FreedomWeighted, freedomType,
		)
	}
	return nil
}

func (p *Params) excluded(aa string) bool {
	for _, ex := range p.Excluded {
		if ex == aa {
			return true
		}
	}
	return false
}
