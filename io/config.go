package io

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/confind/condeg"
	"github.com/phil-mansfield/confind/structure"
)

const (
	ExampleConfindFile = `[Confind]

#######################
# Required Parameters #
#######################

# PDB file containing the structure. Files ending in .gz are decompressed.
Structure = path/to/structure.pdb
# Index file of the rotamer library. Run 'confind example-config rotlib' to see
# its format.
RotamerLibrary = path/to/rotlib/index.cfg

#######################
# Optional Parameters #
#######################

# Where results are written. Default is stdout.
# Output = contacts.txt

# Output format, one of [ Text | YAML ].
# Format = Text

# Writes a plot of per-residue freedom and crowdedness to this file. Needs a
# working python + matplotlib.
# Plot = freedom.png

# Progress messages go here instead of stderr.
# LogFile = log.out

# Writes one line for every rotamer placed, noting whether it survived
# backbone pruning and which residues pruned it.
# RotamerLog = rotamers.log

# CA-CA distance beyond which residues are never in contact.
# Dcut = 25
# Side-chain atoms closer than ClashDist to a backbone atom prune their
# rotamer.
# ClashDist = 3
# Side-chain atoms of two residues closer than ContDist are in contact.
# ContDist = 3

# Comma separated amino acids whose rotamers are never considered.
# Excluded = GLY,PRO

# Enumerates the rotamers of every amino acid at every position, weighted by
# natural abundance, instead of only the residue's own amino acid.
# DesignMode = false

# Counts CB as a side-chain atom for all amino acids (always true for ALA).
# CountCB = false

# Collision probability cutoffs and freedom type (1 or 2) used to compute
# freedom.
# LoCollProbCut = 0.01
# HiCollProbCut = 0.5
# FreedomType = 2

# Only records above these values are reported.
# ContactCut = 0.01
# InterferenceCut = 0.01

# Backbone-backbone interactions are reported for backbones closer than BBCut,
# skipping residues within IgnoreFlanking positions of each other on a chain.
# BBCut = 4
# IgnoreFlanking = 3

# Orders contacts from the highest degree to the lowest.
# SortByDegree = false

# Restricts the analysis to the named residue selections below. Without any
# [Selection] sections every residue is analyzed.
#
# [Selection "interface"]
# Chain = B
# Residue = A,12
# Residue = A,40`
)

type ConfindConfig struct {
	// Required
	Structure, RotamerLibrary string

	// Optional
	Output, Format, Plot string
	LogFile, RotamerLog  string

	Dcut, ClashDist, ContDist    float64
	Excluded                     string
	DesignMode, CountCB          bool
	LoCollProbCut, HiCollProbCut float64
	FreedomType                  int

	ContactCut, InterferenceCut, BBCut float64
	IgnoreFlanking                     int
	SortByDegree                       bool
}

type SelectionConfig struct {
	Chain   []string
	Residue []string

	// Optional, "undocumented"
	Name string
}

type ConfindWrapper struct {
	Confind   ConfindConfig
	Selection map[string]*SelectionConfig
}

func DefaultConfindWrapper() *ConfindWrapper {
	p := condeg.DefaultParams()

	con := ConfindConfig{}
	con.Format = "Text"
	con.Dcut, con.ClashDist, con.ContDist = p.Dcut, p.ClashDist, p.ContDist
	con.Excluded = strings.Join(p.Excluded, ",")
	con.LoCollProbCut, con.HiCollProbCut = p.LoCollProbCut, p.HiCollProbCut
	con.FreedomType = p.FreedomType
	con.ContactCut = 0.01
	con.InterferenceCut = 0.01
	con.BBCut = 4
	con.IgnoreFlanking = 3
	return &ConfindWrapper{Confind: con}
}

// ReadConfindConfig reads a config file on top of the default values.
func ReadConfindConfig(fname string) (*ConfindWrapper, error) {
	wrap := DefaultConfindWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	return wrap, nil
}

func (con *ConfindConfig) ValidStructure() bool {
	return con.Structure != ""
}
func (con *ConfindConfig) ValidRotamerLibrary() bool {
	return con.RotamerLibrary != ""
}
func (con *ConfindConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *ConfindConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *ConfindConfig) ValidRotamerLog() bool {
	return con.RotamerLog != ""
}
func (con *ConfindConfig) ValidPlot() bool {
	return con.Plot != ""
}
func (con *ConfindConfig) ValidFormat() bool {
	f := strings.ToLower(strings.Trim(con.Format, " "))
	return f == "text" || f == "yaml"
}
func (con *ConfindConfig) ValidBBCut() bool {
	return con.BBCut > 0
}
func (con *ConfindConfig) ValidIgnoreFlanking() bool {
	return con.IgnoreFlanking >= 0
}

// Params converts the config to engine parameters.
func (con *ConfindConfig) Params() (condeg.Params, error) {
	p := condeg.DefaultParams()
	p.Dcut, p.ClashDist, p.ContDist = con.Dcut, con.ClashDist, con.ContDist
	p.DesignMode, p.CountCB = con.DesignMode, con.CountCB
	p.LoCollProbCut, p.HiCollProbCut = con.LoCollProbCut, con.HiCollProbCut
	p.FreedomType = con.FreedomType

	p.Excluded = []string{}
	for _, aa := range strings.Split(con.Excluded, ",") {
		aa = strings.ToUpper(strings.Trim(aa, " "))
		if aa == "" {
			continue
		} else if !structure.IsAminoAcid(aa) {
			return p, fmt.Errorf(
				"Excluded amino acid '%s' is not recognized.", aa,
			)
		}
		p.Excluded = append(p.Excluded, aa)
	}

	return p, p.Validate()
}

func (sel *SelectionConfig) CheckInit(name string) error {
	if len(sel.Chain) == 0 && len(sel.Residue) == 0 {
		return fmt.Errorf(
			"Selection '%s' must name at least one Chain or Residue.", name,
		)
	}

	for i, res := range sel.Residue {
		tok := strings.Split(strings.Trim(res, " "), ",")
		if len(tok) != 2 || tok[0] == "" {
			return fmt.Errorf(
				"Residue '%s' of Selection '%s' must have the form "+
					"'Chain,Number'.", res, name,
			)
		}
		num := strings.TrimRight(tok[1], "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
		if _, err := strconv.Atoi(num); err != nil {
			return fmt.Errorf(
				"Residue '%s' of Selection '%s' has an invalid number.",
				res, name,
			)
		}
		sel.Residue[i] = strings.Trim(res, " ")
	}

	sel.Name = name
	return nil
}

// Residues returns the residues of s matched by the selection, in structural
// order.
func (sel *SelectionConfig) Residues(
	s *structure.Structure,
) ([]structure.ResidueID, error) {
	chains := map[string]bool{}
	for _, c := range sel.Chain {
		chains[strings.Trim(c, " ")] = true
	}
	keys := map[string]bool{}
	for _, r := range sel.Residue {
		keys[r] = false
	}

	out := []structure.ResidueID{}
	for _, id := range s.Residues() {
		key := s.ResidueKey(id)
		_, named := keys[key]
		if chains[s.Chain(s.Residue(id).Chain).ID] || named {
			out = append(out, id)
		}
		if named {
			keys[key] = true
		}
	}

	for _, r := range sel.Residue {
		if !keys[r] {
			return nil, fmt.Errorf(
				"Residue '%s' of Selection '%s' is not in %s.",
				r, sel.Name, s.Name,
			)
		}
	}
	return out, nil
}

// SelectedResidues returns the union of every selection in the wrapper, or
// nil if there are no selections.
func (wrap *ConfindWrapper) SelectedResidues(
	s *structure.Structure,
) ([]structure.ResidueID, error) {
	if len(wrap.Selection) == 0 {
		return nil, nil
	}

	in := map[structure.ResidueID]bool{}
	for name, sel := range wrap.Selection {
		if err := sel.CheckInit(name); err != nil {
			return nil, err
		}
		ids, err := sel.Residues(s)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			in[id] = true
		}
	}

	out := []structure.ResidueID{}
	for _, id := range s.Residues() {
		if in[id] {
			out = append(out, id)
		}
	}
	return out, nil
}
