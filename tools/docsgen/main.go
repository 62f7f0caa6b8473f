// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tfctl/layerctl/internal/layers"
)

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      Common       `yaml:"common"`
}

type Common struct {
	Flags []Flag `yaml:"flags"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

// docsgen writes the layer table page into the docs folder and, when
// templates/layerctl.yaml exists there, the per-command pages.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(1)
	}
	docs := os.Args[1]

	path, err := writeLayers(docs)
	if err != nil {
		panic(err)
	}
	fmt.Println("Generating", path)

	if err := writeCommands(docs); err != nil {
		panic(err)
	}
}

// writeLayers renders the built-in table to DOCS_DIR/layers.md.
func writeLayers(docs string) (string, error) {
	t := layers.Default()
	if err := t.Validate(); err != nil {
		return "", err
	}

	doc, err := layers.Document(t)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(docs, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(docs, "layers.md")
	return path, os.WriteFile(path, doc, 0o644)
}

func writeCommands(docs string) error {
	data, err := os.ReadFile(filepath.Join(docs, "templates", "layerctl.yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return err
	}

	types := []Outputs{
		{Template: filepath.Join(docs, "templates", "layerctl.md.tmpl"), Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: filepath.Join(docs, "templates", "layerctl.man.tmpl"), Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "layerctl-", Suffix: ".1"},
		{Template: filepath.Join(docs, "templates", "layerctl.tldr.tmpl"), Folder: filepath.Join(docs, "tldr"), Prefix: "layerctl-", Suffix: ".md"},
	}

	for _, sub := range config.Subcommands {
		mergedFlags := append([]Flag{}, config.Common.Flags...)
		mergedFlags = append(mergedFlags, sub.Flags...)
		sort.Slice(mergedFlags, func(i, j int) bool {
			return mergedFlags[i].ID < mergedFlags[j].ID
		})
		sub.Flags = mergedFlags

		metadata := TemplateData{
			Subcommand: sub,
			Date:       time.Now().Format("January 2, 2006"),
			Version:    getVersion(),
		}

		for _, t := range types {
			if _, err := os.Stat(t.Template); err != nil {
				continue
			}
			if err := render(t, sub.ID, metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

func render(t Outputs, id string, metadata TemplateData) error {
	if err := os.MkdirAll(t.Folder, 0o755); err != nil {
		return err
	}

	tmpl, err := template.ParseFiles(t.Template)
	if err != nil {
		return err
	}

	path := filepath.Join(t.Folder, t.Prefix+id+t.Suffix)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Println("Generating", path)
	return tmpl.Execute(file, metadata)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
