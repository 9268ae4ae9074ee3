package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/confind/condeg"
	"github.com/phil-mansfield/confind/io"
	"github.com/phil-mansfield/confind/pdb"
	"github.com/phil-mansfield/confind/rotlib"
	"github.com/phil-mansfield/confind/structure"
)

func main() {
	root := &cobra.Command{
		Use:   "confind",
		Short: "Finds residue contacts from the rotamers available at each position.",
	}
	root.AddCommand(contactsCommand(), exampleConfigCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func exampleConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "example-config [confind | rotlib]",
		Short:     "Prints an example configuration file to stdout.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"confind", "rotlib"},
		Run: func(cmd *cobra.Command, args []string) {
			kind := "confind"
			if len(args) > 0 {
				kind = strings.ToLower(args[0])
			}

			switch kind {
			case "confind":
				fmt.Println(io.ExampleConfindFile)
			case "rotlib":
				fmt.Println(rotlib.ExampleIndexFile)
			default:
				log.Fatalf(
					"Unrecognized 'example-config' argument '%s'. Only "+
						"recognized arguments are 'confind' and 'rotlib'.",
					args[0],
				)
			}
		},
	}
}

func contactsCommand() *cobra.Command {
	var cfgFile string
	flagCon := io.ConfindConfig{}

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Computes contacts, interference, backbone interactions and freedom.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			wrap := io.DefaultConfindWrapper()
			if cfgFile != "" {
				var err error
				wrap, err = io.ReadConfindConfig(cfgFile)
				if err != nil {
					log.Fatal(err.Error())
				}
			}
			overrideConfig(cmd, &wrap.Confind, &flagCon)
			contactsMain(wrap)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "Configuration file with a [Confind] section.")
	f.StringVar(&flagCon.Structure, "structure", "", "PDB file to analyze.")
	f.StringVar(&flagCon.RotamerLibrary, "rotlib", "", "Rotamer library index file.")
	f.StringVar(&flagCon.Output, "out", "", "Output file. Default is stdout.")
	f.StringVar(&flagCon.Format, "format", "", "Output format: Text or YAML.")
	f.StringVar(&flagCon.Plot, "plot", "", "Writes a freedom/crowdedness plot here.")
	f.StringVar(&flagCon.LogFile, "log", "", "Writes progress messages here.")
	f.StringVar(&flagCon.RotamerLog, "rotlog", "", "Writes one line per placed rotamer here.")
	f.Float64Var(&flagCon.Dcut, "dcut", 0, "CA-CA neighbor cutoff.")
	f.Float64Var(&flagCon.ContactCut, "contact-cut", 0, "Minimum reported contact degree.")
	f.BoolVar(&flagCon.DesignMode, "design", false, "Considers every amino acid at every position.")
	f.BoolVar(&flagCon.SortByDegree, "sort", false, "Orders contacts by degree.")

	return cmd
}

// overrideConfig copies every flag the user set into con.
func overrideConfig(cmd *cobra.Command, con, flagCon *io.ConfindConfig) {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}

	set("structure", func() { con.Structure = flagCon.Structure })
	set("rotlib", func() { con.RotamerLibrary = flagCon.RotamerLibrary })
	set("out", func() { con.Output = flagCon.Output })
	set("format", func() { con.Format = flagCon.Format })
	set("plot", func() { con.Plot = flagCon.Plot })
	set("log", func() { con.LogFile = flagCon.LogFile })
	set("rotlog", func() { con.RotamerLog = flagCon.RotamerLog })
	set("dcut", func() { con.Dcut = flagCon.Dcut })
	set("contact-cut", func() { con.ContactCut = flagCon.ContactCut })
	set("design", func() { con.DesignMode = flagCon.DesignMode })
	set("sort", func() { con.SortByDegree = flagCon.SortByDegree })
}

func contactsMain(wrap *io.ConfindWrapper) {
	con := &wrap.Confind

	if !con.ValidStructure() {
		log.Fatal("Invalid/non-existent 'Structure' value.")
	} else if !con.ValidRotamerLibrary() {
		log.Fatal("Invalid/non-existent 'RotamerLibrary' value.")
	} else if !con.ValidFormat() {
		log.Fatal("'Format' must be one of [Text | YAML].")
	} else if !con.ValidBBCut() {
		log.Fatal("Invalid 'BBCut' value.")
	} else if !con.ValidIgnoreFlanking() {
		log.Fatal("Invalid 'IgnoreFlanking' value.")
	}

	if con.ValidLogFile() {
		lf, err := os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer lf.Close()
		log.SetOutput(lf)
	}

	rep, err := analyze(wrap)
	if err != nil {
		log.Fatal(err.Error())
	}

	out := os.Stdout
	if con.ValidOutput() {
		out, err = os.Create(con.Output)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer out.Close()
	}
	if err := io.WriteReport(out, rep, con.Format); err != nil {
		log.Fatal(err.Error())
	}

	freedom, crowdedness := scores(rep)
	if len(freedom) > 0 {
		log.Printf(
			"Mean freedom %.3f and crowdedness %.3f over %d residues.",
			stat.Mean(freedom, nil), stat.Mean(crowdedness, nil), len(freedom),
		)
	}

	if con.ValidPlot() {
		plotScores(con.Plot, rep.Structure, freedom, crowdedness)
	}
}

// analyze runs every engine query on the selected residues of the configured
// structure.
func analyze(wrap *io.ConfindWrapper) (*io.Report, error) {
	con := &wrap.Confind

	p, err := con.Params()
	if err != nil {
		return nil, err
	}
	s, err := pdb.ReadFile(con.Structure)
	if err != nil {
		return nil, err
	}
	lib, err := rotlib.ReadTable(con.RotamerLibrary)
	if err != nil {
		return nil, err
	}

	e, err := condeg.New(s, lib, p)
	if err != nil {
		return nil, err
	}
	if con.ValidRotamerLog() {
		if err := e.OpenLogFile(con.RotamerLog, false); err != nil {
			return nil, err
		}
		defer e.CloseLogFile()
	}

	ids, err := selectResidues(wrap, e)
	if err != nil {
		return nil, err
	}
	log.Printf(
		"Read %d residues from %s, analyzing %d.",
		s.NumResidues(), con.Structure, len(ids),
	)

	if err := e.CacheResidues(ids); err != nil {
		return nil, err
	}

	contacts, err := e.ContactsFor(ids, con.ContactCut, nil)
	if err != nil {
		return nil, err
	}
	if con.SortByDegree {
		contacts.SortByDegree()
	}
	interfering, err := e.Interfering(ids, con.InterferenceCut, nil)
	if err != nil {
		return nil, err
	}
	bb, err := e.BBInteractions(ids, con.BBCut, con.IgnoreFlanking, nil)
	if err != nil {
		return nil, err
	}

	rep := &io.Report{
		Structure:    s.Name,
		Contacts:     io.Records(s, contacts),
		Interference: io.Records(s, interfering),
		Backbone:     io.Records(s, bb),
	}

	for _, id := range ids {
		score := io.ResidueScore{Residue: s.ResidueKey(id)}
		f, err := e.Freedom(id)
		if errors.Is(err, condeg.ErrNotConsidered) {
			rep.Residues = append(rep.Residues, score)
			continue
		} else if err != nil {
			return nil, err
		}
		c, err := e.Crowdedness(id)
		if err != nil {
			return nil, err
		}

		score.Freedom, score.Crowdedness = &f, &c
		rep.Residues = append(rep.Residues, score)
	}

	return rep, nil
}

// selectResidues returns the configured selection, or every residue if there
// is none. Residues without a complete backbone are skipped.
func selectResidues(
	wrap *io.ConfindWrapper, e *condeg.Engine,
) ([]structure.ResidueID, error) {
	ids, err := wrap.SelectedResidues(e.Structure())
	if err != nil {
		return nil, err
	}

	usable := e.Residues()
	if ids == nil {
		return usable, nil
	}

	ok := map[structure.ResidueID]bool{}
	for _, id := range usable {
		ok[id] = true
	}
	out := []structure.ResidueID{}
	for _, id := range ids {
		if ok[id] {
			out = append(out, id)
		} else {
			log.Printf(
				"Skipping %s: incomplete backbone.",
				e.Structure().ResidueLabel(id),
			)
		}
	}
	return out, nil
}

func scores(rep *io.Report) (freedom, crowdedness []float64) {
	for _, r := range rep.Residues {
		if r.Freedom != nil {
			freedom = append(freedom, *r.Freedom)
			crowdedness = append(crowdedness, *r.Crowdedness)
		}
	}
	return freedom, crowdedness
}

func plotScores(fname, name string, freedom, crowdedness []float64) {
	xs := make([]float64, len(freedom))
	for i := range xs {
		xs[i] = float64(i)
	}

	plt.Figure()
	plt.Plot(xs, freedom, "k", plt.LW(2))
	plt.Plot(xs, crowdedness, plt.LW(2), plt.C("r"))
	plt.Title(fmt.Sprintf("%s: freedom (black) and crowdedness (red)", name))
	plt.XLabel("Residue", plt.FontSize(16))
	plt.YLabel("Score", plt.FontSize(16))
	plt.YLim(0, 1.05)
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
	plt.Execute()
}
