// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // Content-MD5 is what S3 expects.
	"encoding/base64"
	"errors"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/log"
)

// DefaultKey is the object key used when none is configured.
const DefaultKey = "lumigo-python-tracer/layers.md"

// ContentType is the media type of the published document.
const ContentType = "text/markdown; charset=utf-8"

// ErrNoBucket is returned when no destination bucket is set.
var ErrNoBucket = errors.New("no bucket to publish to")

// ObjectPutter is the slice of the S3 API used here.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// Publisher uploads the rendered layer document.
type Publisher struct {
	Client ObjectPutter
	Bucket string
	Key    string
}

// Result describes an upload.
type Result struct {
	Location string
	ETag     string
	Size     int
	DryRun   bool
}

// Render returns the document that Publish would upload for t.
func Render(t *layers.Table) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to publish an inconsistent table: %w", err)
	}
	return layers.Document(t)
}

// Publish renders t and uploads it. With dryRun the document is rendered and
// validated but nothing is sent.
func (p *Publisher) Publish(ctx context.Context, t *layers.Table, dryRun bool) (Result, error) {
	if p.Bucket == "" {
		return Result{}, ErrNoBucket
	}
	key := p.Key
	if key == "" {
		key = DefaultKey
	}

	doc, err := Render(t)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Location: fmt.Sprintf("s3://%s/%s", p.Bucket, key),
		Size:     len(doc),
		DryRun:   dryRun,
	}
	if dryRun {
		log.Debugf("dry run: would put %d bytes to %s", len(doc), res.Location)
		return res, nil
	}

	sum := md5.Sum(doc) //nolint:gosec
	out, err := p.Client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(p.Bucket),
		Key:         awsv2.String(key),
		Body:        bytes.NewReader(doc),
		ContentType: awsv2.String(ContentType),
		ContentMD5:  awsv2.String(base64.StdEncoding.EncodeToString(sum[:])),
		Metadata: map[string]string{
			"layer":   layers.LayerName,
			"entries": fmt.Sprint(t.Len()),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to put %s: %w", res.Location, err)
	}

	res.ETag = awsv2.ToString(out.ETag)
	log.Debugf("published: location=%s etag=%s", res.Location, res.ETag)
	return res, nil
}
