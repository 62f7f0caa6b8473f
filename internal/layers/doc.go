// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package layers holds the region to Lambda layer ARN table for the
// lumigo-python-tracer layer. The table is built once at init and is
// read-only afterwards, so it is safe for concurrent use without locking.
//
// The same table is rendered as, and can be read back from, a two-column
// Markdown document ("Region", "ARN") which is the form consumed by the
// documentation site and simple lookup scripts.
package layers
