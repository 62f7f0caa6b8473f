// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package layers

// builtin is the published table. Publishing a new layer version replaces
// this list wholesale.
var builtin = []Entry{
	{Region: "ap-east-1", ARN: LayerARN("ap-east-1", 70)},
	{Region: "ap-northeast-1", ARN: LayerARN("ap-northeast-1", 111)},
	{Region: "ap-northeast-2", ARN: LayerARN("ap-northeast-2", 111)},
	{Region: "ap-south-1", ARN: LayerARN("ap-south-1", 111)},
	{Region: "ap-southeast-1", ARN: LayerARN("ap-southeast-1", 111)},
	{Region: "ap-southeast-2", ARN: LayerARN("ap-southeast-2", 111)},
	{Region: "ca-central-1", ARN: LayerARN("ca-central-1", 111)},
	{Region: "eu-central-1", ARN: LayerARN("eu-central-1", 111)},
	{Region: "eu-north-1", ARN: LayerARN("eu-north-1", 111)},
	{Region: "eu-west-1", ARN: LayerARN("eu-west-1", 111)},
	{Region: "eu-west-2", ARN: LayerARN("eu-west-2", 111)},
	{Region: "eu-west-3", ARN: LayerARN("eu-west-3", 111)},
	{Region: "me-south-1", ARN: LayerARN("me-south-1", 111)},
	{Region: "sa-east-1", ARN: LayerARN("sa-east-1", 111)},
	{Region: "us-east-1", ARN: LayerARN("us-east-1", 111)},
	{Region: "us-east-2", ARN: LayerARN("us-east-2", 111)},
	{Region: "us-west-1", ARN: LayerARN("us-west-1", 111)},
	{Region: "us-west-2", ARN: LayerARN("us-west-2", 111)},
}

var defaultTable = mustNew(builtin...)

func mustNew(entries ...Entry) *Table {
	t, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return t
}
