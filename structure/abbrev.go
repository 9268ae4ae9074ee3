package structure

import (
	"strings"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
}

// AminoOneToThree is the reverse of AminoThreeToOne. It is created in
// this package's 'init' function.
var AminoOneToThree = map[byte]string{}

// StandardAminoAcids lists the twenty canonical amino acids in alphabetical
// order of their three letter codes.
var StandardAminoAcids = []string{
	"ALA", "ARG", "ASN", "ASP", "CYS", "GLN", "GLU", "GLY", "HIS", "ILE",
	"LEU", "LYS", "MET", "PHE", "PRO", "SER", "THR", "TRP", "TYR", "VAL",
}

// BackboneNames are the heavy main-chain atoms, in N-to-C order.
var BackboneNames = [4]string{"N", "CA", "C", "O"}

func init() {
	for k, v := range AminoThreeToOne {
		AminoOneToThree[v] = k
	}
}

// IsAminoAcid returns true if name is a known amino acid three letter code.
func IsAminoAcid(name string) bool {
	_, ok := AminoThreeToOne[name]
	return ok
}

// IsBackbone returns true for main-chain atom names, including the terminal
// oxygen.
func IsBackbone(atom string) bool {
	switch atom {
	case "N", "CA", "C", "O", "OXT":
		return true
	}
	return false
}

// IsHydrogen guesses from an atom name whether the atom is a hydrogen. Names
// such as "1HB" put digits in front of the element.
func IsHydrogen(atom string) bool {
	name := strings.TrimLeft(atom, "0123456789")
	return strings.HasPrefix(name, "H") || strings.HasPrefix(name, "D")
}
