// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for layerctl's user
// configuration. The configuration is a YAML document named layerctl.yaml in
// the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/layerctl.yaml or $HOME/.config/layerctl.yaml
//   - macOS: $HOME/Library/Application Support/layerctl.yaml
//   - Windows: %APPDATA%/layerctl.yaml
//
// LAYERCTL_CFG_FILE overrides the location.
package config
