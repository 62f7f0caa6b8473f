// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerARN(t *testing.T) {
	assert.Equal(t,
		"arn:aws:lambda:eu-west-1:114300393969:layer:lumigo-python-tracer:111",
		LayerARN("eu-west-1", 111))
}

func TestParseLayerARN(t *testing.T) {
	tests := []struct {
		name    string
		arn     string
		want    LayerVersion
		wantErr bool
	}{
		{
			name: "valid",
			arn:  "arn:aws:lambda:us-east-1:114300393969:layer:lumigo-python-tracer:111",
			want: LayerVersion{Partition: "aws", Region: "us-east-1", AccountID: AccountID, Layer: LayerName, Version: 111},
		},
		{name: "empty", arn: "", wantErr: true},
		{name: "not an arn", arn: "lumigo-python-tracer", wantErr: true},
		{name: "other service", arn: "arn:aws:s3:us-east-1:114300393969:layer:x:1", wantErr: true},
		{name: "other partition", arn: "arn:aws-cn:lambda:cn-north-1:114300393969:layer:x:1", wantErr: true},
		{name: "function not layer", arn: "arn:aws:lambda:us-east-1:114300393969:function:x", wantErr: true},
		{name: "unversioned", arn: "arn:aws:lambda:us-east-1:114300393969:layer:x", wantErr: true},
		{name: "bad version", arn: "arn:aws:lambda:us-east-1:114300393969:layer:x:latest", wantErr: true},
		{name: "zero version", arn: "arn:aws:lambda:us-east-1:114300393969:layer:x:0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLayerARN(tt.arn)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidARN)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.arn, got.String())
		})
	}
}

func TestFindRegion(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "US East (N. Virginia) - us-east-1", want: "us-east-1", ok: true},
		{in: "`ap-southeast-2`", want: "ap-southeast-2", ok: true},
		{in: "us-gov-west-1", want: "us-gov-west-1", ok: true},
		{in: "Europe (Ireland)", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := FindRegion(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegionLabel(t *testing.T) {
	assert.Equal(t, "Asia Pacific (Hong Kong)", RegionLabel("ap-east-1"))
	assert.Equal(t, "xx-nowhere-9", RegionLabel("xx-nowhere-9"))
}
