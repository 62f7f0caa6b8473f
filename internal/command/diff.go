// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/config"
	"github.com/tfctl/layerctl/internal/differ"
	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/meta"
)

var (
	// ErrTablesDiffer is returned by diff --exit-code when the tables differ.
	ErrTablesDiffer = errors.New("tables differ")

	// ErrNoDocument is returned by diff without a document to compare.
	ErrNoDocument = errors.New("no document to compare; pass FILE or --file")
)

var diffDefaultColumns = []string{"region", "kind", "left", "right"}

// diffCommandAction compares the built-in table against a Markdown document.
// By default it prints a structural diff of the region to ARN maps; --changes
// lists the differing regions through the output flags instead.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.SetNamespace("diff")

	path := cmd.Args().First()
	if path == "" {
		path = cmd.String("file")
	}
	if path == "" {
		return ErrNoDocument
	}

	other, err := loadTable(cmd, path)
	if err != nil {
		return err
	}
	builtin := layers.Default()

	var changed bool
	if cmd.Bool("changes") {
		changes := differ.Compare(builtin, other)
		changed = len(changes) > 0
		if err := EmitRows(changes, diffDefaultColumns, cmd); err != nil {
			return err
		}
	} else {
		changed, err = differ.Tables(stdout(cmd), builtin, other, cmd.Bool("color"))
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintln(stdout(cmd), "The tables are identical.")
		}
	}

	if changed && cmd.Bool("exit-code") {
		return fmt.Errorf("%w: built-in table and %s", ErrTablesDiffer, path)
	}
	return nil
}

// diffCommandBuilder constructs the cli.Command for "diff".
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "diff",
		Usage:     "compare the built-in table with a Markdown document",
		UsageText: "layerctl diff [FILE] [options]",
		Flags: []cli.Flag{
			newFileFlag(),
			&cli.BoolFlag{
				Name:  "changes",
				Usage: "list changed regions instead of a structural diff",
			},
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "fail when the tables differ",
			},
		},
		Output: true,
		Action: diffCommandAction,
		Meta:   meta,
	}).Build()
}
