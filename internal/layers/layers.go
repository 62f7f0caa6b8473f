// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package layers

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tfctl/layerctl/internal/log"
)

var (
	// ErrNotFound is returned when a region has no entry in the table.
	ErrNotFound = errors.New("region not found")

	// ErrDuplicateRegion is returned when a region appears more than once.
	ErrDuplicateRegion = errors.New("duplicate region")

	// ErrNoTable is returned when a document contains no layer table.
	ErrNoTable = errors.New("no layer table found")
)

// Entry is a single row of the table.
type Entry struct {
	Region string `json:"region" yaml:"region"`
	Label  string `json:"label" yaml:"label"`
	ARN    string `json:"arn" yaml:"arn"`
}

// Version returns the layer version encoded in the entry's ARN, or 0 if the
// ARN does not parse.
func (e Entry) Version() int {
	lv, err := ParseLayerARN(e.ARN)
	if err != nil {
		return 0
	}
	return lv.Version
}

// Table is an immutable region keyed set of entries. The zero value is an
// empty table.
type Table struct {
	entries []Entry
	index   map[string]int
}

// New builds a Table from entries, preserving their order. It fails on an
// empty region or on a region that appears more than once. ARN content is not
// checked here; see Validate.
func New(entries ...Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		if e.Region == "" {
			return nil, fmt.Errorf("entry %d: empty region", i)
		}
		if _, ok := t.index[e.Region]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRegion, e.Region)
		}
		if e.Label == "" {
			e.Label = RegionLabel(e.Region)
		}
		t.index[e.Region] = len(t.entries)
		t.entries = append(t.entries, e)
	}

	log.Debugf("table built: entries=%d", len(t.entries))
	return t, nil
}

// Lookup returns the ARN for region. The match is exact and case-sensitive.
func (t *Table) Lookup(region string) (string, error) {
	e, ok := t.Entry(region)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, region)
	}
	return e.ARN, nil
}

// Entry returns the entry for region and whether it exists.
func (t *Table) Entry(region string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	i, ok := t.index[region]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of the entries in table order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Regions returns the region codes in table order.
func (t *Table) Regions() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Region
	}
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Versions groups regions by the layer version their ARN carries. Regions
// within a version are sorted.
func (t *Table) Versions() map[int][]string {
	out := make(map[int][]string)
	for _, e := range t.Entries() {
		v := e.Version()
		out[v] = append(out[v], e.Region)
	}
	for _, regions := range out {
		sort.Strings(regions)
	}
	return out
}

// Validate checks every entry for self-consistency. All problems are
// reported in a single joined error.
func (t *Table) Validate() error {
	return CheckEntries(t.Entries())
}

// CheckEntries validates a raw list of entries, such as one read from a
// document, without building a Table. It reports duplicate regions and every
// ARN that does not describe this layer in the entry's own region.
func CheckEntries(entries []Entry) error {
	var errs []error

	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Region == "" {
			errs = append(errs, fmt.Errorf("entry %d: empty region", i))
			continue
		}
		if first, ok := seen[e.Region]; ok {
			errs = append(errs, fmt.Errorf("%w: %s (entries %d and %d)", ErrDuplicateRegion, e.Region, first, i))
		} else {
			seen[e.Region] = i
		}
		if err := checkEntry(e); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// checkEntry verifies that e.ARN is this layer, published in e.Region.
func checkEntry(e Entry) error {
	lv, err := ParseLayerARN(e.ARN)
	if err != nil {
		return fmt.Errorf("%s: %w", e.Region, err)
	}

	var problems []string
	if lv.Region != e.Region {
		problems = append(problems, fmt.Sprintf("arn region %q", lv.Region))
	}
	if lv.AccountID != AccountID {
		problems = append(problems, fmt.Sprintf("account %q", lv.AccountID))
	}
	if lv.Layer != LayerName {
		problems = append(problems, fmt.Sprintf("layer %q", lv.Layer))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %w: unexpected %s", e.Region, ErrInvalidARN, strings.Join(problems, ", "))
	}
	return nil
}

// Default returns the built-in table.
func Default() *Table {
	return defaultTable
}

// Lookup returns the ARN for region from the built-in table.
func Lookup(region string) (string, error) {
	return defaultTable.Lookup(region)
}
