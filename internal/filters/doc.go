// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects rows of a JSON result set with --filter
// expressions.
//
// Filters are key-operator-target expressions joined by a delimiter (default
// ",", override with LAYERCTL_FILTER_DELIM). Operators:
//
//   - = : exact match
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - @ : contains substring
//   - / : regex match
//   - < : less than (numeric when the value is a number)
//   - > : greater than (numeric when the value is a number)
//
// Any operator may be negated with a leading "!". A bare key keeps rows where
// the key has a non-empty value.
//
// Examples:
//
//   - "region^eu-" : European regions
//   - "version<100" : entries still on an older layer version
//   - "arn!@:111" : ARNs not on version 111
package filters
