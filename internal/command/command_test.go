// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	lambdav2 "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/publish"
	"github.com/tfctl/layerctl/internal/verify"
)

// isolate points the config at a fixture and clears env sources so the
// developer's shell does not leak into flag values.
func isolate(t *testing.T, cfgFile string) {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("testdata", cfgFile))
	require.NoError(t, err)
	t.Setenv("LAYERCTL_CFG_FILE", abs)
	t.Setenv("LAYERCTL_CACHE", "0")
	for _, k := range []string{
		"LAYERCTL_FILE", "LAYERCTL_REGION", "LAYERCTL_PROFILE",
		"LAYERCTL_PUBLISH_BUCKET", "LAYERCTL_PUBLISH_KEY",
		"AWS_REGION", "AWS_PROFILE", "NO_COLOR",
	} {
		// An empty env var still wins a flag's source chain, so unset it.
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, args ...string) runResult {
	t.Helper()
	return runWithConfig(t, "layerctl.yaml", args...)
}

func runWithConfig(t *testing.T, cfgFile string, args ...string) runResult {
	t.Helper()
	isolate(t, cfgFile)

	args = append([]string{"layerctl"}, args...)
	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut

	err = app.Run(context.Background(), args)
	return runResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

type fakeLambda struct {
	mu   sync.Mutex
	errs map[string]error
	seen []string
}

func (f *fakeLambda) GetLayerVersionByArn(_ context.Context, in *lambdav2.GetLayerVersionByArnInput, optFns ...func(*lambdav2.Options)) (*lambdav2.GetLayerVersionByArnOutput, error) {
	var o lambdav2.Options
	for _, fn := range optFns {
		fn(&o)
	}

	f.mu.Lock()
	f.seen = append(f.seen, o.Region)
	f.mu.Unlock()

	if err, ok := f.errs[o.Region]; ok {
		return nil, err
	}
	lv, err := layers.ParseLayerARN(awsv2.ToString(in.Arn))
	if err != nil {
		return nil, err
	}
	return &lambdav2.GetLayerVersionByArnOutput{
		LayerVersionArn: in.Arn,
		Version:         int64(lv.Version),
		CreatedDate:     awsv2.String("2024-01-01T00:00:00.000+0000"),
		Content:         &types.LayerVersionContentOutput{CodeSize: 2048},
	}, nil
}

func useFakeLambda(t *testing.T, fake *fakeLambda) {
	t.Helper()
	orig, origNow := newLayerVersionGetter, now
	newLayerVersionGetter = func(context.Context, *cli.Command) (verify.LayerVersionGetter, error) {
		return fake, nil
	}
	now = func() time.Time { return time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { newLayerVersionGetter, now = orig, origNow })
}

type fakeS3 struct {
	in *s3v2.PutObjectInput
}

func (f *fakeS3) PutObject(_ context.Context, in *s3v2.PutObjectInput, _ ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	f.in = in
	return &s3v2.PutObjectOutput{ETag: awsv2.String(`"e1"`)}, nil
}

func useFakeS3(t *testing.T, fake *fakeS3) {
	t.Helper()
	orig := newObjectPutter
	newObjectPutter = func(context.Context, *cli.Command) (publish.ObjectPutter, error) {
		return fake, nil
	}
	t.Cleanup(func() { newObjectPutter = orig })
}

func TestInitApp_Commands(t *testing.T) {
	isolate(t, "layerctl.yaml")
	app, err := InitApp(context.Background(), []string{"layerctl", "list"})
	require.NoError(t, err)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"lookup", "list", "check", "diff", "verify", "publish", "completion"}, names)
	assert.Equal(t, "list", GetMeta(app.Commands[1]).Args[1])
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		want    string
		wantErr error
	}{
		{
			name: "argument",
			args: []string{"lookup", "us-east-1"},
			want: "arn:aws:lambda:us-east-1:114300393969:layer:lumigo-python-tracer:111\n",
		},
		{
			name: "older version",
			args: []string{"lookup", "ap-east-1"},
			want: "arn:aws:lambda:ap-east-1:114300393969:layer:lumigo-python-tracer:70\n",
		},
		{
			name: "region flag",
			args: []string{"lookup", "--region", "eu-north-1"},
			want: "arn:aws:lambda:eu-north-1:114300393969:layer:lumigo-python-tracer:111\n",
		},
		{
			name: "several",
			args: []string{"lookup", "sa-east-1", "me-south-1"},
			want: "arn:aws:lambda:sa-east-1:114300393969:layer:lumigo-python-tracer:111\n" +
				"arn:aws:lambda:me-south-1:114300393969:layer:lumigo-python-tracer:111\n",
		},
		{
			name: "from document",
			args: []string{"lookup", "--file", "testdata/layers.md", "ap-east-1"},
			want: "arn:aws:lambda:ap-east-1:114300393969:layer:lumigo-python-tracer:111\n",
		},
		{
			name:    "unknown",
			args:    []string{"lookup", "nonexistent-region"},
			wantErr: layers.ErrNotFound,
		},
		{
			name:    "case sensitive",
			args:    []string{"lookup", "US-EAST-1"},
			wantErr: layers.ErrNotFound,
		},
		{
			name:    "no region",
			args:    []string{"lookup"},
			wantErr: ErrNoRegion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.err, tt.wantErr)
				return
			}
			require.NoError(t, res.err)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestLookup_PartialMiss(t *testing.T) {
	res := run(t, "lookup", "us-west-2", "xx-nowhere-1")
	assert.ErrorIs(t, res.err, layers.ErrNotFound)
	assert.Contains(t, res.err.Error(), "xx-nowhere-1")
	assert.Equal(t, "arn:aws:lambda:us-west-2:114300393969:layer:lumigo-python-tracer:111\n", res.stdout)
}

func TestLookup_Stdin(t *testing.T) {
	isolate(t, "layerctl.yaml")
	doc, err := os.ReadFile("testdata/layers.md")
	require.NoError(t, err)

	args := []string{"layerctl", "lookup", "--file", "-", "eu-west-1"}
	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var out bytes.Buffer
	app.Reader = bytes.NewReader(doc)
	app.Writer = &out
	require.NoError(t, app.Run(context.Background(), args))
	assert.Equal(t, "arn:aws:lambda:eu-west-1:114300393969:layer:lumigo-python-tracer:111\n", out.String())
}

func TestList_JSON(t *testing.T) {
	res := run(t, "list", "--output", "json", "--attrs", "region,label,version,arn")
	require.NoError(t, res.err)

	var rows []listRow
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 18)
	for _, r := range rows {
		assert.Equal(t, layers.LayerARN(r.Region, r.Version), r.ARN)
		assert.NotEmpty(t, r.Label)
	}
}

func TestList_Filter(t *testing.T) {
	res := run(t, "list", "-o", "json", "--filter", "version<111")
	require.NoError(t, res.err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "ap-east-1", rows[0]["region"])
}

func TestList_Text(t *testing.T) {
	res := run(t, "list", "--titles", "--sort", "-region")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	require.Len(t, lines, 19)
	assert.Contains(t, lines[0], "region")
	assert.Contains(t, lines[1], "us-west-2")
	assert.Contains(t, lines[18], "ap-east-1")
}

func TestList_Markdown(t *testing.T) {
	res := run(t, "list", "-o", "markdown", "--filter", "region^eu-", "--sort", "region")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[2], "| Europe (Frankfurt) - eu-central-1 ")
	assert.False(t, strings.ContainsRune(res.stdout, '\u00a0'))

	entries, err := layers.ParseMarkdown(strings.NewReader(res.stdout))
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "eu-west-3", entries[4].Region)
}

func TestList_HCL(t *testing.T) {
	res := run(t, "list", "-o", "hcl", "--filter", "region=ap-east-1")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "locals {")
	assert.Contains(t, res.stdout, `"arn:aws:lambda:ap-east-1:114300393969:layer:lumigo-python-tracer:70"`)
}

func TestList_BadOutput(t *testing.T) {
	res := run(t, "list", "-o", "xml")
	assert.Error(t, res.err)
}

func TestCheck(t *testing.T) {
	res := run(t, "check", "--count", "18")
	require.NoError(t, res.err)
	assert.Equal(t, "ok: built-in table: 18 entries, 70 (ap-east-1), 111 (17 regions)\n", res.stdout)
	assert.Contains(t, res.stderr, "warning: layer versions diverge")
}

func TestCheck_Failures(t *testing.T) {
	res := run(t, "check", "--strict")
	assert.ErrorIs(t, res.err, ErrVersionDivergence)

	res = run(t, "check", "--count", "17")
	assert.ErrorIs(t, res.err, ErrEntryCount)

	res = run(t, "check", "--file", "testdata/broken.md")
	assert.ErrorIs(t, res.err, layers.ErrDuplicateRegion)
	assert.ErrorIs(t, res.err, layers.ErrInvalidARN)

	res = run(t, "check", "--file", "testdata/missing.md")
	assert.ErrorIs(t, res.err, os.ErrNotExist)
}

func TestCheck_Document(t *testing.T) {
	res := run(t, "check", "--file", "testdata/layers.md", "--strict")
	require.NoError(t, res.err)
	assert.Equal(t, "ok: testdata/layers.md: 3 entries, 111 (ap-east-1 eu-west-1 us-east-1)\n", res.stdout)
}

func TestDiff_Changes(t *testing.T) {
	res := run(t, "diff", "--changes", "-o", "json", "testdata/layers.md")
	require.NoError(t, res.err)

	var changes []map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &changes))

	kinds := map[string]int{}
	for _, c := range changes {
		kinds[c["kind"]]++
		if c["kind"] == "changed" {
			assert.Equal(t, "ap-east-1", c["region"])
		}
	}
	assert.Equal(t, map[string]int{"changed": 1, "removed": 15}, kinds)
}

func TestDiff_Structural(t *testing.T) {
	res := run(t, "diff", "--file", "testdata/layers.md", "--exit-code")
	assert.ErrorIs(t, res.err, ErrTablesDiffer)
	assert.Contains(t, res.stdout, "lumigo-python-tracer:70")

	doc, err := layers.Document(layers.Default())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "layers.md")
	require.NoError(t, os.WriteFile(path, doc, 0o600))

	res = run(t, "diff", "--exit-code", path)
	require.NoError(t, res.err)
	assert.Equal(t, "The tables are identical.\n", res.stdout)

	res = run(t, "diff")
	assert.ErrorIs(t, res.err, ErrNoDocument)
}

func TestVerify(t *testing.T) {
	fake := &fakeLambda{}
	useFakeLambda(t, fake)

	res := run(t, "verify", "-o", "json", "--only", "us-east-1,ap-east-1")
	require.NoError(t, res.err)
	assert.ElementsMatch(t, []string{"us-east-1", "ap-east-1"}, fake.seen)

	var rows []verify.ReportRow
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "ap-east-1", rows[0].Region, "table order")
	assert.Equal(t, "ok", rows[0].Status)
	assert.Equal(t, int64(70), rows[0].Version)
	assert.Equal(t, "2 days ago", rows[0].Created)
	assert.Equal(t, "2.0 kB", rows[0].Size)
}

func TestVerify_Failure(t *testing.T) {
	fake := &fakeLambda{errs: map[string]error{
		"me-south-1": &types.ResourceNotFoundException{Message: awsv2.String("gone")},
	}}
	useFakeLambda(t, fake)

	res := run(t, "verify", "--filter", "status!=ok")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "1 of 18 layer versions failed verification: me-south-1=missing")
	assert.Contains(t, res.stdout, "me-south-1")
	assert.NotContains(t, res.stdout, "us-east-1")
	assert.Len(t, fake.seen, 18)
}

func TestVerify_UnknownRegion(t *testing.T) {
	useFakeLambda(t, &fakeLambda{})
	res := run(t, "verify", "--only", "xx-nowhere-1")
	assert.ErrorIs(t, res.err, layers.ErrNotFound)
}

func TestPublish(t *testing.T) {
	fake := &fakeS3{}
	useFakeS3(t, fake)

	res := run(t, "publish")
	require.NoError(t, res.err)
	assert.Equal(t, "published s3://docs-bucket/tracer/layers.md", strings.SplitN(res.stdout, " (", 2)[0])
	require.NotNil(t, fake.in)
	assert.Equal(t, "docs-bucket", awsv2.ToString(fake.in.Bucket))

	fake.in = nil
	res = run(t, "publish", "--bucket", "other", "--key", "x.md")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "s3://other/x.md")
}

func TestPublish_DryRun(t *testing.T) {
	fake := &fakeS3{}
	useFakeS3(t, fake)

	res := run(t, "publish", "--dry-run")
	require.NoError(t, res.err)
	assert.Nil(t, fake.in)
	assert.Contains(t, res.stderr, "would publish")
	assert.Contains(t, res.stderr, "s3://docs-bucket/tracer/layers.md")

	want, err := layers.Document(layers.Default())
	require.NoError(t, err)
	assert.Equal(t, string(want), res.stdout)
}

func TestPublish_NoBucket(t *testing.T) {
	useFakeS3(t, &fakeS3{})

	res := runWithConfig(t, "empty.yaml", "publish")
	assert.ErrorIs(t, res.err, publish.ErrNoBucket)

	res = runWithConfig(t, "empty.yaml", "publish", "--dry-run")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "no bucket configured")
}

func TestCompletion(t *testing.T) {
	res := run(t, "completion", "bash")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "complete -F _layerctl layerctl")
	assert.Contains(t, res.stdout, "ap-east-1")

	res = run(t, "completion", "zsh")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "compdef _layerctl layerctl")
}

func TestVersionSummary(t *testing.T) {
	assert.Equal(t, "70 (ap-east-1), 111 (a b c)", versionSummary(map[int][]string{
		111: {"a", "b", "c"},
		70:  {"ap-east-1"},
	}))
	assert.Equal(t, "111 (4 regions)", versionSummary(map[int][]string{111: {"a", "b", "c", "d"}}))
}

func TestOutputValidator(t *testing.T) {
	for _, v := range []string{"text", "json", "yaml", "raw", "markdown", "hcl"} {
		assert.NoError(t, OutputValidator(v), v)
	}
	assert.Error(t, OutputValidator("csv"))
	assert.NoError(t, ConcurrencyValidator(4))
	assert.Error(t, ConcurrencyValidator(0))
	assert.Error(t, ConcurrencyValidator(65))
}

func TestFlagValidators(t *testing.T) {
	assert.NoError(t, FlagValidators("json"))
	assert.NoError(t, FlagValidators("json", OutputValidator))
	assert.ErrorContains(t, FlagValidators("csv", OutputValidator), "must be one of")
}
