// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package layers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

const (
	// AccountID is the AWS account that publishes the layer.
	AccountID = "114300393969"
	// LayerName is the published layer name.
	LayerName = "lumigo-python-tracer"

	// layerResourceSegments is "layer", name and version.
	layerResourceSegments = 3
)

// ErrInvalidARN is returned for strings that are not a versioned Lambda layer
// ARN.
var ErrInvalidARN = errors.New("invalid layer arn")

// LayerVersion is a parsed layer version ARN.
type LayerVersion struct {
	Partition string
	Region    string
	AccountID string
	Layer     string
	Version   int
}

// String renders lv back into ARN form.
func (lv LayerVersion) String() string {
	return arn.ARN{
		Partition: lv.Partition,
		Service:   "lambda",
		Region:    lv.Region,
		AccountID: lv.AccountID,
		Resource:  fmt.Sprintf("layer:%s:%d", lv.Layer, lv.Version),
	}.String()
}

// LayerARN formats the ARN of this layer at version in region.
func LayerARN(region string, version int) string {
	return LayerVersion{
		Partition: "aws",
		Region:    region,
		AccountID: AccountID,
		Layer:     LayerName,
		Version:   version,
	}.String()
}

// ParseLayerARN parses s as arn:aws:lambda:<region>:<account>:layer:<name>:<version>.
func ParseLayerARN(s string) (LayerVersion, error) {
	a, err := arn.Parse(s)
	if err != nil {
		return LayerVersion{}, fmt.Errorf("%w: %q: %v", ErrInvalidARN, s, err)
	}
	if a.Partition != "aws" || a.Service != "lambda" {
		return LayerVersion{}, fmt.Errorf("%w: %q: not an aws lambda arn", ErrInvalidARN, s)
	}

	parts := strings.Split(a.Resource, ":")
	if len(parts) != layerResourceSegments || parts[0] != "layer" || parts[1] == "" {
		return LayerVersion{}, fmt.Errorf("%w: %q: resource is not layer:<name>:<version>", ErrInvalidARN, s)
	}

	version, err := strconv.Atoi(parts[2])
	if err != nil || version <= 0 {
		return LayerVersion{}, fmt.Errorf("%w: %q: bad version %q", ErrInvalidARN, s, parts[2])
	}

	return LayerVersion{
		Partition: a.Partition,
		Region:    a.Region,
		AccountID: a.AccountID,
		Layer:     parts[1],
		Version:   version,
	}, nil
}
