// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/config"
	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/log"
	"github.com/tfctl/layerctl/internal/meta"
	"github.com/tfctl/layerctl/internal/verify"
)

// now is replaced in tests.
var now = time.Now

// verifyCommandAction resolves every selected layer ARN against the Lambda
// API in its own region and reports the outcome per region. The command fails
// when any region is not ok, after the report is written.
func verifyCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.SetNamespace("verify")

	runner := NewRowsActionRunner("verify", verify.ReportColumns,
		func(ctx context.Context, cmd *cli.Command) ([]verify.ReportRow, error) {
			t, err := loadTable(cmd, cmd.String("file"))
			if err != nil {
				return nil, err
			}

			entries, err := selectEntries(t, cmd.String("only"))
			if err != nil {
				return nil, err
			}

			client, err := newLayerVersionGetter(ctx, cmd)
			if err != nil {
				return nil, err
			}

			v := verify.New(client)
			v.Concurrency = cmd.Int("concurrency")
			v.UseCache = !cmd.Bool("no-cache")

			results, err := v.Verify(ctx, entries)
			if err != nil {
				return nil, err
			}
			for _, r := range verify.Failed(results) {
				log.Debugf("verify failure: region=%s status=%s message=%s", r.Region, r.Status, r.Message)
			}
			return verify.Report(results, now()), nil
		},
	)

	runner.PostFn = func(rows []verify.ReportRow) error {
		var failed []string
		for _, r := range rows {
			if r.Status != string(verify.StatusOK) {
				failed = append(failed, r.Region+"="+r.Status)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d layer versions failed verification: %s",
				len(failed), len(rows), strings.Join(failed, " "))
		}
		return nil
	}

	return runner.Run(ctx, cmd)
}

// selectEntries returns the entries of t named in the comma-separated only
// list, in table order, or all entries when only is empty.
func selectEntries(t *layers.Table, only string) ([]layers.Entry, error) {
	if strings.TrimSpace(only) == "" {
		return t.Entries(), nil
	}

	want := map[string]bool{}
	for _, r := range strings.Split(only, ",") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := t.Entry(r); !ok {
			return nil, fmt.Errorf("%w: %s", layers.ErrNotFound, r)
		}
		want[r] = true
	}

	var entries []layers.Entry
	for _, e := range t.Entries() {
		if want[e.Region] {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// verifyCommandBuilder constructs the cli.Command for "verify".
func verifyCommandBuilder(meta meta.Meta) *cli.Command {
	concurrency, _ := config.GetInt("verify.concurrency", verify.DefaultConcurrency)

	return (&CommandBuilder{
		Name:      "verify",
		Usage:     "resolve every layer ARN against the Lambda API",
		UsageText: "layerctl verify [options]",
		Flags: []cli.Flag{
			newFileFlag(),
			NewProfileFlag("verify", meta.Config.Source),
			NewRegionFlag("verify", meta.Config.Source),
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "maximum concurrent Lambda calls",
				Value: concurrency,
				Validator: func(value int) error {
					return FlagValidators(value, ConcurrencyValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "bypass cached verification results",
			},
			&cli.StringFlag{
				Name:  "only",
				Usage: "comma-separated list of regions to verify",
			},
		},
		Output: true,
		Action: verifyCommandAction,
		Meta:   meta,
	}).Build()
}
