// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/config"
	"github.com/tfctl/layerctl/internal/log"
	"github.com/tfctl/layerctl/internal/meta"
)

// ErrNoRegion is returned by lookup when neither an argument nor --region
// names a region.
var ErrNoRegion = errors.New("no region given")

// lookupCommandAction prints the layer ARN of each region argument, or of
// --region when there are none. Regions missing from the table are reported
// together after the ARNs that were found.
func lookupCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.SetNamespace("lookup")

	regions := cmd.Args().Slice()
	if len(regions) == 0 {
		if r := cmd.String("region"); r != "" {
			regions = []string{r}
		}
	}
	if len(regions) == 0 {
		return ErrNoRegion
	}

	t, err := loadTable(cmd, cmd.String("file"))
	if err != nil {
		return err
	}

	w := stdout(cmd)
	var errs []error
	for _, region := range regions {
		arn, err := t.Lookup(region)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		log.Debugf("lookup: region=%s arn=%s", region, arn)
		fmt.Fprintln(w, arn)
	}

	return errors.Join(errs...)
}

// lookupCommandBuilder constructs the cli.Command for "lookup".
func lookupCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "lookup",
		Usage:     "print the layer ARN for a region",
		UsageText: "layerctl lookup [REGION...] [options]",
		Flags: []cli.Flag{
			newFileFlag(),
			NewRegionFlag("lookup", meta.Config.Source),
		},
		Action: lookupCommandAction,
		Meta:   meta,
	}).Build()
}
