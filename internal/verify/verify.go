// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package verify

import (
	"context"
	"errors"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	lambdav2 "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
	"golang.org/x/sync/errgroup"

	"github.com/tfctl/layerctl/internal/aws"
	"github.com/tfctl/layerctl/internal/cacheutil"
	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/log"
)

// Status is the outcome of resolving one layer ARN.
type Status string

const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
	StatusDenied  Status = "denied"
	StatusError   Status = "error"
)

// DefaultConcurrency bounds the in-flight Lambda calls.
const DefaultConcurrency = 8

// createdLayout is the timestamp format of Lambda's CreatedDate.
const createdLayout = "2006-01-02T15:04:05.000-0700"

var cacheSubdirs = []string{"verify"}

// LayerVersionGetter is the slice of the Lambda API used here.
type LayerVersionGetter interface {
	GetLayerVersionByArn(ctx context.Context, params *lambdav2.GetLayerVersionByArnInput, optFns ...func(*lambdav2.Options)) (*lambdav2.GetLayerVersionByArnOutput, error)
}

// Result is the verification outcome for one table entry.
type Result struct {
	Region   string    `json:"region"`
	ARN      string    `json:"arn"`
	Status   Status    `json:"status"`
	Version  int64     `json:"version,omitempty"`
	Created  time.Time `json:"created,omitempty"`
	CodeSize int64     `json:"code_size,omitempty"`
	Runtimes []string  `json:"runtimes,omitempty"`
	Message  string    `json:"message,omitempty"`
	Cached   bool      `json:"-"`
}

// Verifier resolves table entries against the Lambda API.
type Verifier struct {
	Client      LayerVersionGetter
	Concurrency int
	UseCache    bool
}

// New returns a Verifier for client with default settings.
func New(client LayerVersionGetter) *Verifier {
	return &Verifier{
		Client:      client,
		Concurrency: DefaultConcurrency,
		UseCache:    true,
	}
}

// Verify resolves every entry, one API call per region, and returns results in
// entry order. A failing region is reported in its Result and never aborts the
// others; the returned error is only non-nil when ctx is done.
func (v *Verifier) Verify(ctx context.Context, entries []layers.Entry) ([]Result, error) {
	results := make([]Result, len(entries))

	limit := v.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = v.verifyOne(gctx, e)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// verifyOne resolves a single entry, consulting the cache first.
func (v *Verifier) verifyOne(ctx context.Context, e layers.Entry) Result {
	if v.UseCache {
		var cached Result
		if cacheutil.ReadJSON(cacheSubdirs, e.ARN, &cached) && cached.Status == StatusOK {
			cached.Cached = true
			return cached
		}
	}

	log.Debugf("verifying: region=%s arn=%s", e.Region, e.ARN)
	out, err := v.Client.GetLayerVersionByArn(ctx, &lambdav2.GetLayerVersionByArnInput{
		Arn: awsv2.String(e.ARN),
	}, aws.InRegion(e.Region))
	if err != nil {
		r := Result{Region: e.Region, ARN: e.ARN, Status: Classify(err), Message: err.Error()}
		log.Debugf("verify failed: region=%s status=%s err=%v", e.Region, r.Status, err)
		return r
	}

	r := resultFromOutput(e, out)
	if v.UseCache {
		if err := cacheutil.WriteJSON(cacheSubdirs, e.ARN, r); err != nil {
			log.WithError(err).Warnf("failed to cache verification for %s", e.Region)
		}
	}
	return r
}

// Classify maps a Lambda API error to a Status.
func Classify(err error) Status {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return StatusMissing
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "AccessDenied", "UnrecognizedClientException":
			return StatusDenied
		case "ResourceNotFoundException":
			return StatusMissing
		}
	}
	return StatusError
}

func resultFromOutput(e layers.Entry, out *lambdav2.GetLayerVersionByArnOutput) Result {
	r := Result{
		Region:  e.Region,
		ARN:     e.ARN,
		Status:  StatusOK,
		Version: out.Version,
	}

	if created := awsv2.ToString(out.CreatedDate); created != "" {
		if ts, err := time.Parse(createdLayout, created); err == nil {
			r.Created = ts
		} else {
			log.Debugf("unparsed created date %q: %v", created, err)
		}
	}
	if out.Content != nil {
		r.CodeSize = out.Content.CodeSize
	}
	for _, rt := range out.CompatibleRuntimes {
		r.Runtimes = append(r.Runtimes, string(rt))
	}
	return r
}

// Failed returns the results whose status is not ok.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Status != StatusOK {
			out = append(out, r)
		}
	}
	return out
}
