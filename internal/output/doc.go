// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output filters, sorts and renders JSON row sets as text tables,
// JSON, YAML, Markdown or a Terraform locals block.
package output
