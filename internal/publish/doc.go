// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package publish uploads the rendered Markdown layer document to S3, where
// the documentation site picks it up.
package publish
