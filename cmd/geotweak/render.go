package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/woozymasta/geotweak/internal/export"
	"github.com/woozymasta/geotweak/internal/processor"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#243141"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// render builds the selected view of res. The returned name is the export
// filename for the geojson view and empty otherwise.
func render(res *processor.Result, view, format, indent string) ([]byte, string, error) {
	switch view {
	case "table":
		t, err := res.Table()
		if err != nil {
			return nil, "", err
		}
		return []byte(renderTable(t.Header, t.Rows)), "", nil

	case "summary":
		s, err := res.Summary()
		if err != nil {
			return nil, "", err
		}
		out, err := encode(s, format, indent)
		return out, "", err

	default:
		exp, err := res.Export()
		if err != nil {
			return nil, "", err
		}
		if format != "yaml" {
			return exp.Content, exp.Filename, nil
		}
		out, err := export.ToYAML(exp.Content)
		return out, strings.TrimSuffix(exp.Filename, ".json") + ".yaml", err
	}
}

// renderTable draws rows under header with rounded borders.
func renderTable(header []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(header...).
		Rows(rows...)

	return t.String()
}

// encode renders v as JSON, or as YAML keeping the JSON key order.
func encode(v any, format, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	out := bytes.TrimRight(buf.Bytes(), "\n")
	if format == "yaml" {
		return export.ToYAML(out)
	}
	return out, nil
}
