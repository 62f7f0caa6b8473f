// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/config"
	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/log"
	"github.com/tfctl/layerctl/internal/meta"
)

var (
	// ErrVersionDivergence is returned by check --strict when the table holds
	// more than one layer version.
	ErrVersionDivergence = errors.New("layer versions diverge")

	// ErrEntryCount is returned by check --count on a size mismatch.
	ErrEntryCount = errors.New("unexpected entry count")
)

// checkCommandAction validates the built-in table, or the document named by
// --file, and reports every problem at once. Mixed layer versions produce a
// warning, or an error with --strict.
func checkCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.SetNamespace("check")

	entries, source, err := readEntries(cmd, cmd.String("file"))
	if err != nil {
		return err
	}

	if err := layers.CheckEntries(entries); err != nil {
		return fmt.Errorf("%s has problems:\n%w", source, err)
	}

	if want := cmd.Int("count"); want > 0 && len(entries) != want {
		return fmt.Errorf("%w: %s has %d entries, want %d", ErrEntryCount, source, len(entries), want)
	}

	t, err := layers.New(entries...)
	if err != nil {
		return err
	}

	summary := versionSummary(t.Versions())
	if len(t.Versions()) > 1 {
		log.Warnf("%s: layer versions diverge: %s", source, summary)
		if cmd.Bool("strict") {
			return fmt.Errorf("%w: %s", ErrVersionDivergence, summary)
		}
		fmt.Fprintf(stderr(cmd), "warning: layer versions diverge: %s\n", summary)
	}

	fmt.Fprintf(stdout(cmd), "ok: %s: %d entries, %s\n", source, t.Len(), summary)
	return nil
}

// versionSummary formats a version to regions map as
// "70 (ap-east-1), 111 (17 regions)" in ascending version order.
func versionSummary(versions map[int][]string) string {
	keys := make([]int, 0, len(versions))
	for v := range versions {
		keys = append(keys, v)
	}
	sort.Ints(keys)

	parts := make([]string, 0, len(keys))
	for _, v := range keys {
		regions := versions[v]
		if len(regions) <= 3 {
			parts = append(parts, fmt.Sprintf("%d (%s)", v, strings.Join(regions, " ")))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d (%d regions)", v, len(regions)))
	}
	return strings.Join(parts, ", ")
}

// checkCommandBuilder constructs the cli.Command for "check".
func checkCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "check",
		Usage:     "validate the table and report every inconsistency",
		UsageText: "layerctl check [options]",
		Flags: []cli.Flag{
			newFileFlag(),
			&cli.IntFlag{
				Name:  "count",
				Usage: "expected number of entries (0 for any)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "fail when layer versions diverge",
			},
		},
		Action: checkCommandAction,
		Meta:   meta,
	}).Build()
}
