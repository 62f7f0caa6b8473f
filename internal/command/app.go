// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/config"
	"github.com/tfctl/layerctl/internal/log"
	"github.com/tfctl/layerctl/internal/meta"
)

// InitApp builds the root command. The arg immediately following the binary
// is the subcommand and also the namespace used for config lookups.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// args[1] could be -h/--help, so ignore it if it appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}
	config.SetNamespace(ns)

	// A missing config file is normal; flags then fall back to env and defaults.
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("config not loaded: %v", err)
	}

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "layerctl",
		Usage: "Lumigo Python tracer layer table",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "layerctl version info",
				HideDefault: true,
			},
		},
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
	}

	app.Commands = append(app.Commands,
		lookupCommandBuilder(meta),
		listCommandBuilder(meta),
		checkCommandBuilder(meta),
		diffCommandBuilder(meta),
		verifyCommandBuilder(meta),
		publishCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
