package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/confind/condeg"
	"github.com/phil-mansfield/confind/structure"
)

// Record is one pairwise relation between two residues.
type Record struct {
	Src   string  `yaml:"src"`
	Dst   string  `yaml:"dst"`
	Value float64 `yaml:"value"`
}

// ResidueScore holds the per-residue results. Residues without rotamers have
// no scores.
type ResidueScore struct {
	Residue     string   `yaml:"residue"`
	Freedom     *float64 `yaml:"freedom,omitempty"`
	Crowdedness *float64 `yaml:"crowdedness,omitempty"`
}

// Report collects everything the contacts mode writes.
type Report struct {
	Structure    string         `yaml:"structure"`
	Contacts     []Record       `yaml:"contacts"`
	Interference []Record       `yaml:"interference"`
	Backbone     []Record       `yaml:"backbone"`
	Residues     []ResidueScore `yaml:"residues"`
}

// Records converts every record of list into residue keys.
func Records(s *structure.Structure, list *condeg.ContactList) []Record {
	out := make([]Record, list.Len())
	for i := range out {
		out[i] = Record{
			s.ResidueKey(list.Src(i)), s.ResidueKey(list.Dst(i)),
			list.DegreeAt(i),
		}
	}
	return out
}

// WriteReport writes rep to wr in the given format, "Text" or "YAML".
func WriteReport(wr io.Writer, rep *Report, format string) error {
	switch strings.ToLower(strings.Trim(format, " ")) {
	case "", "text":
		return WriteText(wr, rep)
	case "yaml":
		return WriteYAML(wr, rep)
	}
	return fmt.Errorf("Output format '%s' is not recognized.", format)
}

// WriteText writes one tab separated line per record.
func WriteText(wr io.Writer, rep *Report) error {
	buf := bufio.NewWriter(wr)

	writeRecords(buf, "contact", rep.Contacts)
	writeRecords(buf, "interfering", rep.Interference)
	writeRecords(buf, "bbinteraction", rep.Backbone)
	for _, r := range rep.Residues {
		if r.Freedom != nil {
			fmt.Fprintf(buf, "freedom\t%s\t%.4f\n", r.Residue, *r.Freedom)
		}
	}
	for _, r := range rep.Residues {
		if r.Crowdedness != nil {
			fmt.Fprintf(buf, "crowdedness\t%s\t%.4f\n", r.Residue, *r.Crowdedness)
		}
	}

	return buf.Flush()
}

func writeRecords(buf *bufio.Writer, kind string, recs []Record) {
	for _, r := range recs {
		fmt.Fprintf(buf, "%s\t%s\t%s\t%.4f\n", kind, r.Src, r.Dst, r.Value)
	}
}

// WriteYAML writes rep as a single YAML document.
func WriteYAML(wr io.Writer, rep *Report) error {
	enc := yaml.NewEncoder(wr)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}
