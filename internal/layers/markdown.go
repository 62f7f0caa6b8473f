// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package layers

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tfctl/layerctl/internal/log"
)

// docTemplate is the page the table is published in.
var docTemplate = template.Must(template.New("layers").Parse(`# {{ .Layer }} layer ARNs

Add the layer that matches your function's region. Layers are published by
account {{ .Account }}.

{{ .Table }}
`))

// gfm parses GitHub flavored tables.
var gfm = goldmark.New(goldmark.WithExtensions(extension.Table))

// RegionCell renders the "Region" column value for e.
func RegionCell(e Entry) string {
	label := e.Label
	if label == "" {
		label = RegionLabel(e.Region)
	}
	if label == e.Region {
		return e.Region
	}
	return label + " - " + e.Region
}

// Markdown renders t as a two-column Markdown table.
func Markdown(t *Table) string {
	entries := t.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{RegionCell(e), e.ARN})
	}
	return PipeTable([]string{"Region", "ARN"}, rows) + "\n"
}

// PipeTable renders headers and rows as a Markdown pipe table. Cells are
// padded with ASCII spaces; lipgloss style padding would emit U+00A0.
func PipeTable(headers []string, rows [][]string) string {
	padded := make([][]string, 0, len(rows))
	for _, row := range rows {
		padded = append(padded, padCells(row))
	}

	return table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers(padCells(headers)...).
		Rows(padded...).
		String()
}

func padCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = " " + c + " "
	}
	return out
}

// Document renders the full Markdown page for t.
func Document(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	err := docTemplate.Execute(&buf, struct {
		Layer   string
		Account string
		Table   string
	}{
		Layer:   LayerName,
		Account: AccountID,
		Table:   strings.TrimRight(Markdown(t), "\n"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseMarkdown reads the first table in r whose header has an "ARN" column
// and returns its rows as entries. Entries are not validated, so that callers
// can report every defect; see CheckEntries and ReadTable.
//
// The region code is taken from the "Region" cell when it contains one and
// from the ARN otherwise.
func ParseMarkdown(r io.Reader) ([]Entry, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	doc := gfm.Parser().Parse(text.NewReader(src))

	var tbl *east.Table
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		t, ok := n.(*east.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		if _, arnCol := headerColumns(t, src); arnCol >= 0 {
			tbl = t
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	if tbl == nil {
		return nil, ErrNoTable
	}

	regionCol, arnCol := headerColumns(tbl, src)
	log.Debugf("table columns: region=%d arn=%d", regionCol, arnCol)

	var entries []Entry
	rowNo := 0
	for n := tbl.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*east.TableRow); !ok {
			continue
		}
		rowNo++

		cells := rowCells(n, src)
		if arnCol >= len(cells) || cells[arnCol] == "" {
			return nil, fmt.Errorf("row %d: no ARN in column %d", rowNo, arnCol+1)
		}

		e := Entry{ARN: cells[arnCol]}
		if regionCol >= 0 && regionCol < len(cells) {
			e.Region, e.Label = parseRegionCell(cells[regionCol])
		}
		if e.Region == "" {
			if lv, err := ParseLayerARN(e.ARN); err == nil {
				e.Region = lv.Region
				e.Label = RegionLabel(lv.Region)
			}
		}
		entries = append(entries, e)
	}

	log.Debugf("parsed document: entries=%d", len(entries))
	return entries, nil
}

// ReadTable parses a Markdown document and builds a Table from it.
func ReadTable(r io.Reader) (*Table, error) {
	entries, err := ParseMarkdown(r)
	if err != nil {
		return nil, err
	}
	return New(entries...)
}

// headerColumns returns the "Region" and "ARN" column indexes of t, -1 when
// absent.
func headerColumns(t *east.Table, src []byte) (regionCol, arnCol int) {
	regionCol, arnCol = -1, -1
	for n := t.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*east.TableHeader); !ok {
			continue
		}
		for i, c := range rowCells(n, src) {
			switch {
			case strings.EqualFold(c, "region"):
				regionCol = i
			case strings.EqualFold(c, "arn"):
				arnCol = i
			}
		}
		break
	}
	return regionCol, arnCol
}

// rowCells returns the plain text of each cell of a header or body row.
// Inline markup such as code spans contributes its text only.
func rowCells(row ast.Node, src []byte) []string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); !ok {
			continue
		}
		var buf bytes.Buffer
		inlineText(&buf, c, src)
		cells = append(cells, strings.TrimSpace(buf.String()))
	}
	return cells
}

func inlineText(buf *bytes.Buffer, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		default:
			inlineText(buf, c, src)
		}
	}
}

// parseRegionCell extracts the region code and label from cells like
// "US East (N. Virginia) - us-east-1" or "us-east-1".
func parseRegionCell(cell string) (region, label string) {
	region, ok := FindRegion(cell)
	if !ok {
		return "", ""
	}
	label = strings.Replace(cell, region, "", 1)
	label = strings.Trim(label, " -")
	if label == "" {
		label = RegionLabel(region)
	}
	return region, label
}
