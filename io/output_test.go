package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/confind/condeg"
)

func testReport() *Report {
	f, c := 0.75, 0.125
	return &Report{
		Structure:    "test",
		Contacts:     []Record{{"A,12", "A,40", 0.1234}},
		Interference: []Record{{"A,12", "B,3", 0.5}},
		Backbone:     []Record{{"A,12", "A,40", 3.8}},
		Residues: []ResidueScore{
			{Residue: "A,12", Freedom: &f, Crowdedness: &c},
			{Residue: "A,13"},
		},
	}
}

func TestWriteText(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteReport(buf, testReport(), "Text"))

	exp := "contact\tA,12\tA,40\t0.1234\n" +
		"interfering\tA,12\tB,3\t0.5000\n" +
		"bbinteraction\tA,12\tA,40\t3.8000\n" +
		"freedom\tA,12\t0.7500\n" +
		"crowdedness\tA,12\t0.1250\n"
	assert.Equal(t, exp, buf.String())

	assert.Error(t, WriteReport(buf, testReport(), "csv"))
}

func TestWriteYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteReport(buf, testReport(), "YAML"))

	got := &Report{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), got))
	assert.Equal(t, "test", got.Structure)
	require.Len(t, got.Residues, 2)
	assert.Nil(t, got.Residues[1].Freedom)
	assert.Equal(t, 0.75, *got.Residues[0].Freedom)
	require.Len(t, got.Interference, 1)
	assert.Equal(t, Record{"A,12", "B,3", 0.5}, got.Interference[0])
}

func TestRecords(t *testing.T) {
	s := selectionStructure()
	list := condeg.NewContactList()
	list.Add(0, 4, 0.25, "", false)
	list.Add(5, 1, 0.5, condeg.InterferenceInfo, true)

	recs := Records(s, list)
	assert.Equal(t, []Record{{"A,10", "B,11", 0.25}, {"B,12", "A,11", 0.5}}, recs)
}
