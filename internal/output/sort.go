// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"cmp"
	"slices"
	"strings"
)

// sortKey is one parsed term of a --sort value.
type sortKey struct {
	field         string
	descending    bool
	caseSensitive bool
}

// parseSortKeys splits spec on commas. Each term may carry "-" (descending)
// and "!" (case-sensitive) prefixes in either order.
func parseSortKeys(spec string) []sortKey {
	var keys []sortKey
	for _, term := range strings.Split(spec, ",") {
		term = strings.TrimSpace(term)
		var k sortKey
		for len(term) > 0 {
			switch term[0] {
			case '-':
				k.descending = true
			case '!':
				k.caseSensitive = true
			default:
				k.field = term
			}
			if k.field != "" {
				break
			}
			term = term[1:]
		}
		if k.field != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// SortDataset orders resultSet in place by the comma-separated keys of spec.
// A "-" prefix sorts a key descending and a "!" prefix compares it
// case-sensitively. Numbers compare numerically. Rows missing a key sort after
// rows that have it, whatever the direction.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	keys := parseSortKeys(spec)
	if len(keys) == 0 {
		return
	}

	slices.SortStableFunc(resultSet, func(a, b map[string]interface{}) int {
		for _, k := range keys {
			av, aok := a[k.field]
			bv, bok := b[k.field]
			switch {
			case !aok && !bok:
				continue
			case !aok:
				return 1
			case !bok:
				return -1
			}

			c := compareValues(av, bv, k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return -c
			}
			return c
		}
		return 0
	})
}

// compareValues orders two cell values, numerically when both are numbers and
// by their string form otherwise.
func compareValues(a, b interface{}, caseSensitive bool) int {
	an, aok := toFloat(a)
	bn, bok := toFloat(b)
	if aok && bok {
		return cmp.Compare(an, bn)
	}

	as, bs := InterfaceToString(a), InterfaceToString(b)
	if !caseSensitive {
		as, bs = strings.ToLower(as), strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
