// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package layers

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestdata(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestMarkdown_RoundTrip(t *testing.T) {
	md := Markdown(Default())

	assert.Contains(t, md, "Region")
	assert.Contains(t, md, "ARN")
	assert.Contains(t, md, "US East (N. Virginia) - us-east-1")

	// Header, delimiter and one line per entry.
	lines := strings.Split(strings.TrimSpace(md), "\n")
	assert.Len(t, lines, Default().Len()+2)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "|"), "line %q", l)
	}

	tbl, err := ReadTable(strings.NewReader(md))
	require.NoError(t, err)
	assert.Equal(t, Default().Entries(), tbl.Entries())
}

func TestDocument(t *testing.T) {
	doc, err := Document(Default())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc, []byte("# lumigo-python-tracer layer ARNs")))
	assert.Contains(t, string(doc), AccountID)

	entries, err := ParseMarkdown(bytes.NewReader(doc))
	require.NoError(t, err)
	assert.Len(t, entries, 18)
}

func TestParseMarkdown_Readme(t *testing.T) {
	entries, err := ParseMarkdown(openTestdata(t, "readme.md"))
	require.NoError(t, err)

	// Only the first table is read.
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{
		Region: "ap-east-1",
		Label:  "Asia Pacific (Hong Kong)",
		ARN:    "arn:aws:lambda:ap-east-1:114300393969:layer:lumigo-python-tracer:70",
	}, entries[0])
	assert.Equal(t, "us-east-1", entries[1].Region)
	assert.Equal(t, "US East (N. Virginia)", entries[1].Label)

	// No region code in the cell, taken from the ARN.
	assert.Equal(t, "eu-west-1", entries[2].Region)

	assert.NoError(t, CheckEntries(entries))
}

func TestParseMarkdown_Broken(t *testing.T) {
	entries, err := ParseMarkdown(openTestdata(t, "broken.md"))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	err = CheckEntries(entries)
	assert.ErrorIs(t, err, ErrDuplicateRegion)
	assert.ErrorIs(t, err, ErrInvalidARN)

	_, err = ReadTable(openTestdata(t, "broken.md"))
	assert.ErrorIs(t, err, ErrDuplicateRegion)
}

func TestParseMarkdown_NoTable(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "prose", doc: "# Title\n\nNothing here.\n"},
		{name: "table without arn column", doc: "| Region | Name |\n|---|---|\n| us-east-1 | x |\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMarkdown(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrNoTable)
		})
	}
}

func TestParseMarkdown_ShortRow(t *testing.T) {
	doc := "| Region | Notes | ARN |\n|---|---|---|\n| us-east-1 | x |\n"
	_, err := ParseMarkdown(strings.NewReader(doc))
	assert.ErrorContains(t, err, "row 1")
}

func TestParseMarkdown_InlineMarkup(t *testing.T) {
	doc := "| Notes | Region | ARN |\n" +
		"|---|---|---|\n" +
		"| primary \\| hot | **US East (N. Virginia) - us-east-1** | `arn:aws:lambda:us-east-1:114300393969:layer:lumigo-python-tracer:111` |\n"

	entries, err := ParseMarkdown(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{
		Region: "us-east-1",
		Label:  "US East (N. Virginia)",
		ARN:    "arn:aws:lambda:us-east-1:114300393969:layer:lumigo-python-tracer:111",
	}, entries[0])
}

func TestMarkdown_ASCIIPadding(t *testing.T) {
	md := Markdown(Default())
	assert.False(t, strings.ContainsRune(md, '\u00a0'), "cells must be padded with ASCII spaces")

	lines := strings.Split(strings.TrimSpace(md), "\n")
	cells := strings.Split(lines[2], "|")
	require.Len(t, cells, 4)
	assert.Equal(t, "Asia Pacific (Hong Kong) - ap-east-1", strings.Trim(cells[1], " "))
	assert.Equal(t, LayerARN("ap-east-1", 70), strings.Trim(cells[2], " "))
}

func TestPipeTable(t *testing.T) {
	out := PipeTable([]string{"a", "b"}, [][]string{{"1", "22"}})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^\| a +\| b +\|$`, lines[0])
	assert.Regexp(t, `^\|-+\|-+\|$`, lines[1])
	assert.Equal(t, "| 1 | 22 |", lines[2])
}

func TestRegionCell(t *testing.T) {
	assert.Equal(t, "Europe (Paris) - eu-west-3", RegionCell(Entry{Region: "eu-west-3"}))
	assert.Equal(t, "xx-nowhere-1", RegionCell(Entry{Region: "xx-nowhere-1"}))
	assert.Equal(t, "Custom - us-east-1", RegionCell(Entry{Region: "us-east-1", Label: "Custom"}))
}
