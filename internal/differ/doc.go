// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ compares two region to ARN tables, either as a per-region
// change list or as a structural JSON diff.
package differ
