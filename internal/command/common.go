// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/aws"
	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/log"
	"github.com/tfctl/layerctl/internal/meta"
	"github.com/tfctl/layerctl/internal/output"
	"github.com/tfctl/layerctl/internal/publish"
	"github.com/tfctl/layerctl/internal/verify"
)

// Client factories, replaced in tests.
var (
	newLayerVersionGetter = func(ctx context.Context, cmd *cli.Command) (verify.LayerVersionGetter, error) {
		cfg, err := aws.LoadAWSConfig(ctx, awsOptions(cmd)...)
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		return aws.NewLambda(cfg), nil
	}

	newObjectPutter = func(ctx context.Context, cmd *cli.Command) (publish.ObjectPutter, error) {
		cfg, err := aws.LoadAWSConfig(ctx, awsOptions(cmd)...)
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		if cmd.Bool("path-style") {
			return aws.NewS3(cfg, aws.WithS3PathStyle()), nil
		}
		return aws.NewS3(cfg), nil
	}
)

// awsOptions maps the --profile and --region flags onto config options.
func awsOptions(cmd *cli.Command) []aws.Option {
	var opts []aws.Option
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, aws.WithProfile(p))
	}
	if r := cmd.String("region"); r != "" {
		opts = append(opts, aws.WithRegion(r))
	}
	return opts
}

// EmitRows marshals rows to JSON and passes them to the common output
// routine.
func EmitRows(rows any, columns []string, cmd *cli.Command) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}
	return output.SliceDiceSpit(*bytes.NewBuffer(raw), columns, cmd, stdout(cmd), nil)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr layerctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "layerctl", subcmd)
			c.Stdout = stdout(cmd)
			c.Stderr = stderr(cmd)
			_ = c.Run()
		}
		return true
	}
	return false
}

// readEntries returns the unvalidated entries of the Markdown document at
// path, or the built-in entries when path is empty, along with a description
// of the source.
func readEntries(cmd *cli.Command, path string) ([]layers.Entry, string, error) {
	if path == "" {
		return layers.Default().Entries(), "built-in table", nil
	}

	r, closer, err := openSource(cmd, path)
	if err != nil {
		return nil, path, err
	}
	defer closer()

	entries, err := layers.ParseMarkdown(r)
	if err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("read %d entries from %s", len(entries), path)
	return entries, path, nil
}

// loadTable returns the table in the Markdown document at path, or the
// built-in table when path is empty.
func loadTable(cmd *cli.Command, path string) (*layers.Table, error) {
	if path == "" {
		return layers.Default(), nil
	}
	entries, source, err := readEntries(cmd, path)
	if err != nil {
		return nil, err
	}
	t, err := layers.New(entries...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return t, nil
}

// openSource opens path for reading; "-" is the command's stdin.
func openSource(cmd *cli.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		if r := cmd.Root().Reader; r != nil {
			return r, func() {}, nil
		}
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
