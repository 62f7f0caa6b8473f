// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdav2 "github.com/aws/aws-sdk-go-v2/service/lambda"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/layerctl/internal/log"
)

// DefaultRegion is used when neither options nor the environment name one.
// Layer verification overrides the region per call, so this only needs to be
// a region the account can reach.
const DefaultRegion = "us-east-1"

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
	retryer func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile, region, and retryer without changing callers. If no region can be
// resolved at all, DefaultRegion is used.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: profile=%s, region=%s", o.profile, o.region)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	log.Debugf("config loaded: region=%s", cfg.Region)
	return cfg, nil
}

// NewLambda constructs a v2 Lambda client from the provided config.
func NewLambda(cfg awsv2.Config, optFns ...func(*lambdav2.Options)) *lambdav2.Client {
	client := lambdav2.NewFromConfig(cfg, optFns...)
	log.Debugf("lambda client created: region=%s", cfg.Region)
	return client
}

// NewS3 constructs a v2 S3 client from the provided config. Additional service
// options can be supplied via optFns.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	client := s3v2.NewFromConfig(cfg, optFns...)
	log.Debugf("s3 client created: region=%s", cfg.Region)
	return client
}

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

// InRegion returns a Lambda per-call option that pins the call to region. The
// layer table spans regions, so a single client is reused with this option.
func InRegion(region string) func(*lambdav2.Options) {
	return func(o *lambdav2.Options) {
		o.Region = region
	}
}

// WithS3PathStyle forces path-style addressing, needed by S3-compatible
// endpoints used for local testing.
func WithS3PathStyle() func(*s3v2.Options) {
	return func(o *s3v2.Options) {
		o.UsePathStyle = true
	}
}
