// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package verify

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ReportRow is the display form of a Result.
type ReportRow struct {
	Region   string `json:"region"`
	Status   string `json:"status"`
	Version  int64  `json:"version"`
	Created  string `json:"created"`
	Size     string `json:"size"`
	Runtimes string `json:"runtimes"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

// ReportColumns are the text columns in display order.
var ReportColumns = []string{"region", "status", "version", "created", "size", "runtimes", "source"}

// Report renders results for display. Ages are relative to now.
func Report(results []Result, now time.Time) []ReportRow {
	rows := make([]ReportRow, 0, len(results))
	for _, r := range results {
		row := ReportRow{
			Region:   r.Region,
			Status:   string(r.Status),
			Version:  r.Version,
			Runtimes: strings.Join(r.Runtimes, " "),
			Source:   "api",
			Message:  r.Message,
		}
		if r.Cached {
			row.Source = "cache"
		}
		if !r.Created.IsZero() {
			row.Created = humanize.RelTime(r.Created, now, "ago", "from now")
		}
		if r.CodeSize > 0 {
			row.Size = humanize.Bytes(uint64(r.CodeSize))
		}
		rows = append(rows, row)
	}
	return rows
}
