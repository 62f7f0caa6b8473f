// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/config"
	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/meta"
	"github.com/tfctl/layerctl/internal/output"
)

// listRow is one table entry as rendered by list.
type listRow struct {
	Region  string `json:"region"`
	Label   string `json:"label"`
	Version int    `json:"version"`
	ARN     string `json:"arn"`
}

var listDefaultColumns = []string{"region", "version", "arn"}

func listRows(t *layers.Table) []listRow {
	entries := t.Entries()
	rows := make([]listRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, listRow{
			Region:  e.Region,
			Label:   e.Label,
			Version: e.Version(),
			ARN:     e.ARN,
		})
	}
	return rows
}

// listCommandAction renders the table. The markdown format renders the
// documentation table of the selected entries rather than a generic pipe
// table.
func listCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.SetNamespace("list")

	t, err := loadTable(cmd, cmd.String("file"))
	if err != nil {
		return err
	}

	if cmd.String("output") == "markdown" {
		return listMarkdown(cmd, t)
	}

	return NewRowsActionRunner("list", listDefaultColumns,
		func(context.Context, *cli.Command) ([]listRow, error) {
			return listRows(t), nil
		},
	).Run(ctx, cmd)
}

func listMarkdown(cmd *cli.Command, t *layers.Table) error {
	raw, err := json.Marshal(listRows(t))
	if err != nil {
		return err
	}

	var selected []layers.Entry
	for _, row := range output.Dataset(raw, nil, cmd.String("filter"), cmd.String("sort")) {
		if e, ok := t.Entry(output.InterfaceToString(row["region"])); ok {
			selected = append(selected, e)
		}
	}

	sub, err := layers.New(selected...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(stdout(cmd), layers.Markdown(sub))
	return err
}

// listCommandBuilder constructs the cli.Command for "list".
func listCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "list",
		Usage:     "list the region to layer ARN table",
		UsageText: "layerctl list [options]",
		Flags: []cli.Flag{
			newFileFlag(),
		},
		Output: true,
		Action: listCommandAction,
		Meta:   meta,
	}).Build()
}
