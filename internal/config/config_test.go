// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points LAYERCTL_CFG_FILE at a testdata file and resets the
// global Config so the next getter reloads it.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("LAYERCTL_CFG_FILE", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		setupTestConfig(t, "layerctl.yaml")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Contains(t, cfg.Source, "layerctl.yaml")
		assert.Equal(t, "us-east-1", cfg.Data["region"])
	})

	t.Run("empty", func(t *testing.T) {
		setupTestConfig(t, "empty.yaml")
		cfg, err := Load()
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.Source)
		assert.Empty(t, cfg.Data)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		setupTestConfig(t, "invalid.yaml")
		_, err := Load()
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv("LAYERCTL_CFG_FILE", "/nonexistent/layerctl.yaml")
		Config = Type{}
		cfg, err := Load(filepath.Join("testdata", "layerctl.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "docs", cfg.Data["profile"])
	})
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("LAYERCTL_CFG_FILE", "/nonexistent/path/layerctl.yaml")
	Config = Type{}

	_, err := Load()
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoad_CfgFileIsDirectory(t *testing.T) {
	t.Setenv("LAYERCTL_CFG_FILE", "testdata")
	Config = Type{}

	_, err := Load()
	assert.ErrorContains(t, err, "points to a directory")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		namespace    string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "top level", key: "region", want: "us-east-1"},
		{name: "nested", key: "publish.bucket", want: "docs-example-bucket"},
		{name: "namespace wins", namespace: "verify", key: "region", want: "eu-west-1"},
		{name: "namespace falls back", namespace: "lookup", key: "region", want: "us-east-1"},
		{name: "already namespaced", namespace: "publish", key: "publish.key", want: "layers/python.md"},
		{name: "missing with default", key: "missing", defaultValue: []string{"dflt"}, want: "dflt"},
		{name: "missing without default", key: "missing", wantErr: true},
		{name: "not a string", key: "verify.concurrency", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, "layerctl.yaml")
			SetNamespace(tt.namespace)

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	setupTestConfig(t, "layerctl.yaml")

	got, err := GetInt("verify.concurrency")
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	got, err = GetInt("cache.hours")
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	got, err = GetInt("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = GetInt("region")
	assert.Error(t, err)
}

func TestGetStringSlice(t *testing.T) {
	setupTestConfig(t, "layerctl.yaml")

	got, err := GetStringSlice("list.eu")
	require.NoError(t, err)
	assert.Equal(t, []string{"--filter region^eu-", "--sort -region"}, got)

	got, err = GetStringSlice("list.none", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)

	_, err = GetStringSlice("list.bad")
	assert.Error(t, err)

	_, err = GetStringSlice("region")
	assert.Error(t, err)
}

func TestLazyLoad(t *testing.T) {
	setupTestConfig(t, "layerctl.yaml")
	require.Empty(t, Config.Data)

	got, err := GetString("profile")
	require.NoError(t, err)
	assert.Equal(t, "docs", got)
	assert.NotEmpty(t, Config.Data)
}
