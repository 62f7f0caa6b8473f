// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/log"
)

// RowsActionRunner[T] encapsulates the common pattern of commands that emit a
// row set: fetch the rows, then filter, sort and render them per the output
// flags. PostFn, when set, runs after emission and may turn the rows into a
// command failure.
type RowsActionRunner[T any] struct {
	CommandName    string
	DefaultColumns []string
	FetchFn        func(context.Context, *cli.Command) ([]T, error)
	PostFn         func([]T) error
}

// Run executes the action with the provided context and command.
func (rar *RowsActionRunner[T]) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("executing action for %s: args=%v", rar.CommandName, m.Args)

	rows, err := rar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}
	log.Debugf("%s fetched %d rows", rar.CommandName, len(rows))

	if err := EmitRows(rows, rar.DefaultColumns, cmd); err != nil {
		return err
	}

	if rar.PostFn != nil {
		return rar.PostFn(rows)
	}
	return nil
}

// NewRowsActionRunner creates a RowsActionRunner with the provided
// configuration.
func NewRowsActionRunner[T any](
	commandName string,
	defaultColumns []string,
	fetchFn func(context.Context, *cli.Command) ([]T, error),
) *RowsActionRunner[T] {
	return &RowsActionRunner[T]{
		CommandName:    commandName,
		DefaultColumns: defaultColumns,
		FetchFn:        fetchFn,
	}
}
