// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/layerctl/internal/config"
	"github.com/tfctl/layerctl/internal/filters"
	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/log"
)

// DefaultHCLLocal is the locals attribute written by the hcl format.
const DefaultHCLLocal = "lumigo_tracer_layer_arns"

// ErrNotMappable is returned by the hcl format when rows lack a region or arn.
var ErrNotMappable = errors.New("rows need region and arn columns for hcl output")

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return empty
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		// Layer versions and sizes are whole numbers.
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Columns returns the columns to render. A non-empty attrs spec (the --attrs
// flag) replaces the defaults.
func Columns(defaults []string, attrs string) []string {
	if strings.TrimSpace(attrs) == "" {
		return defaults
	}

	var columns []string
	for _, a := range strings.Split(attrs, ",") {
		if a = strings.TrimSpace(a); a != "" {
			columns = append(columns, a)
		}
	}
	return columns
}

// Dataset parses raw (a JSON array of rows), keeps the rows matching filter
// and returns them sorted by sortSpec.
func Dataset(raw []byte, columns []string, filter string, sortSpec string) []map[string]interface{} {
	rows := filters.FilterDataset(gjson.ParseBytes(raw), columns, filter)
	if sortSpec != "" {
		SortDataset(rows, sortSpec)
	}
	return rows
}

// SliceDiceSpit filters, sorts and renders raw according to the command's
// output flags. The optional postProcess callback may adjust the dataset
// before text rendering.
func SliceDiceSpit(raw bytes.Buffer,
	defaultColumns []string,
	cmd *cli.Command,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) error {

	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	format := cmd.String("output")
	if format == "raw" {
		_, err := w.Write(raw.Bytes())
		return err
	}

	columns := Columns(defaultColumns, cmd.String("attrs"))
	dataset := Dataset(raw.Bytes(), columns, cmd.String("filter"), cmd.String("sort"))
	log.Debugf("spit: format=%s columns=%v rows=%d", format, columns, len(dataset))

	switch format {
	case "json":
		out, err := json.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "hcl":
		name, _ := config.GetString("hcl.local", DefaultHCLLocal)
		return HCLWriter(dataset, name, w)
	case "markdown":
		return MarkdownWriter(dataset, columns, w)
	default:
		if postProcess != nil {
			if err := postProcess(dataset); err != nil {
				return err
			}
		}

		TableWriter(dataset, columns, TableOptions{
			Color:   colorEnabled(cmd, w),
			Titles:  cmd.Bool("titles"),
			Padding: int(cmd.Int("padding")),
			Header:  metadataString(cmd, "header"),
			Footer:  metadataString(cmd, "footer"),
		}, w)
		return nil
	}
}

// TableOptions control the text rendering.
type TableOptions struct {
	Color   bool
	Titles  bool
	Padding int
	Header  string
	Footer  string
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options.
func TableWriter(resultSet []map[string]interface{}, columns []string, opts TableOptions, w io.Writer) {
	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Bold(true).Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	// Column gaps are written as ASCII spaces; lipgloss padding emits U+00A0.
	gap := strings.Repeat(" ", max(opts.Padding, 0))
	indent := func(i int, s string) string {
		if i > 0 {
			return gap + s
		}
		return s
	}

	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(columns))
		for i, c := range columns {
			row = append(row, indent(i, InterfaceToString(result[c], "-")))
		}
		rows = append(rows, row)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		titles := make([]string, len(columns))
		for i, c := range columns {
			titles[i] = indent(i, c)
		}
		t = t.Headers(titles...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// MarkdownWriter renders the rows as a pipe table with one column per entry
// of columns.
func MarkdownWriter(resultSet []map[string]interface{}, columns []string, w io.Writer) error {
	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(columns))
		for _, c := range columns {
			row = append(row, InterfaceToString(result[c]))
		}
		rows = append(rows, row)
	}

	_, err := fmt.Fprintln(w, layers.PipeTable(columns, rows))
	return err
}

// HCLWriter writes a Terraform locals block holding a region to ARN map named
// name.
func HCLWriter(resultSet []map[string]interface{}, name string, w io.Writer) error {
	arns := make(map[string]cty.Value, len(resultSet))
	for _, result := range resultSet {
		region := InterfaceToString(result["region"])
		arn := InterfaceToString(result["arn"])
		if region == "" || arn == "" {
			return ErrNotMappable
		}
		arns[region] = cty.StringVal(arn)
	}

	value := cty.MapValEmpty(cty.String)
	if len(arns) > 0 {
		value = cty.MapVal(arns)
	}

	f := hclwrite.NewEmptyFile()
	locals := f.Body().AppendNewBlock("locals", nil)
	locals.Body().SetAttributeValue(name, value)

	_, err := w.Write(f.Bytes())
	return err
}

// colorEnabled honors an explicit --color and otherwise colors only
// terminals, unless NO_COLOR is set.
func colorEnabled(cmd *cli.Command, w io.Writer) bool {
	if cmd.IsSet("color") {
		return cmd.Bool("color")
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func metadataString(cmd *cli.Command, key string) string {
	if s, ok := cmd.Metadata[key].(string); ok {
		return s
	}
	return ""
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
