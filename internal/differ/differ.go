// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/log"
)

// Kind classifies a per-region difference.
type Kind string

const (
	Added   Kind = "added"
	Removed Kind = "removed"
	Changed Kind = "changed"
)

// Change is one region that differs between two tables.
type Change struct {
	Region string `json:"region"`
	Kind   Kind   `json:"kind"`
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
}

// Document encodes t as a JSON object of region to ARN, the shape that Diff
// compares.
func Document(t *layers.Table) ([]byte, error) {
	doc := make(map[string]string, t.Len())
	for _, e := range t.Entries() {
		doc[e.Region] = e.ARN
	}
	return json.Marshal(doc)
}

// Compare lists the regions whose ARN differs between left and right, sorted
// by region.
func Compare(left, right *layers.Table) []Change {
	var changes []Change

	for _, l := range left.Entries() {
		r, err := right.Lookup(l.Region)
		switch {
		case err != nil:
			changes = append(changes, Change{Region: l.Region, Kind: Removed, Left: l.ARN})
		case r != l.ARN:
			changes = append(changes, Change{Region: l.Region, Kind: Changed, Left: l.ARN, Right: r})
		}
	}
	for _, r := range right.Entries() {
		if _, err := left.Lookup(r.Region); err != nil {
			changes = append(changes, Change{Region: r.Region, Kind: Added, Right: r.ARN})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Region < changes[j].Region
	})
	return changes
}

// Diff writes an ASCII structural diff of two JSON documents to w and reports
// whether they differ. Identical documents write nothing.
func Diff(w io.Writer, left, right []byte, color bool) (bool, error) {
	log.Debugf("diff: len(left)=%d len(right)=%d", len(left), len(right))

	delta, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return false, fmt.Errorf("failed to compare documents: %w", err)
	}

	if !delta.Modified() {
		return false, nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(left, &jdoc); err != nil {
		return true, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       color,
	}

	diffString, err := formatter.NewAsciiFormatter(jdoc, config).Format(delta)
	if err != nil {
		return true, err
	}

	_, err = fmt.Fprint(w, diffString)
	return true, err
}

// Tables diffs two tables through their region to ARN documents.
func Tables(w io.Writer, left, right *layers.Table, color bool) (bool, error) {
	l, err := Document(left)
	if err != nil {
		return false, err
	}
	r, err := Document(right)
	if err != nil {
		return false, err
	}
	return Diff(w, l, r, color)
}
