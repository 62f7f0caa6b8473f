// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/config"
	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/meta"
	"github.com/tfctl/layerctl/internal/publish"
)

// publishCommandAction renders the documentation page for the built-in table
// and uploads it to S3. With --dry-run the page is written to stdout and
// nothing is uploaded.
func publishCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.SetNamespace("publish")

	t := layers.Default()

	if cmd.Bool("dry-run") {
		doc, err := publish.Render(t)
		if err != nil {
			return err
		}
		if _, err := stdout(cmd).Write(doc); err != nil {
			return err
		}

		if cmd.String("bucket") == "" {
			fmt.Fprintf(stderr(cmd), "dry run: %d bytes rendered, no bucket configured\n", len(doc))
			return nil
		}
		p := &publish.Publisher{Bucket: cmd.String("bucket"), Key: cmd.String("key")}
		res, err := p.Publish(ctx, t, true)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr(cmd), "dry run: would publish %d bytes to %s\n", res.Size, res.Location)
		return nil
	}

	if cmd.String("bucket") == "" {
		return publish.ErrNoBucket
	}

	client, err := newObjectPutter(ctx, cmd)
	if err != nil {
		return err
	}

	p := &publish.Publisher{
		Client: client,
		Bucket: cmd.String("bucket"),
		Key:    cmd.String("key"),
	}
	res, err := p.Publish(ctx, t, false)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout(cmd), "published %s (%d bytes, etag %s)\n", res.Location, res.Size, res.ETag)
	return nil
}

// publishCommandBuilder constructs the cli.Command for "publish".
func publishCommandBuilder(meta meta.Meta) *cli.Command {
	bucket := NameSpacedValueChainFlagFromConfigFile("publish", meta.Config.Source, &cli.StringFlag{
		Name:    "bucket",
		Aliases: []string{"b"},
		Usage:   "S3 bucket to publish to",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("LAYERCTL_PUBLISH_BUCKET"),
		),
	})

	key := NameSpacedValueChainFlagFromConfigFile("publish", meta.Config.Source, &cli.StringFlag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "S3 object key",
		Value:   publish.DefaultKey,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("LAYERCTL_PUBLISH_KEY"),
		),
	})

	return (&CommandBuilder{
		Name:      "publish",
		Usage:     "upload the rendered layer table to S3",
		UsageText: "layerctl publish [options]",
		Flags: []cli.Flag{
			bucket,
			key,
			NewProfileFlag("publish", meta.Config.Source),
			NewRegionFlag("publish", meta.Config.Source),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "render and validate without uploading",
			},
			&cli.BoolFlag{
				Name:  "path-style",
				Usage: "use path-style S3 addressing",
			},
		},
		Action: publishCommandAction,
		Meta:   meta,
	}).Build()
}
