package models

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Format is the classification the detector assigns to an input.
type Format string

const (
	FormatUnknown       Format = "unknown"
	FormatJSON          Format = "json"
	FormatNDJSON        Format = "ndjson"
	FormatYAML          Format = "yaml"
	FormatTOML          Format = "toml"
	FormatCSV           Format = "csv"
	FormatMarkdownTable Format = "markdown_table"
)

// String returns the format name.
func (f Format) String() string { return string(f) }

// Target is a format a canonical value can be rendered into.
type Target string

const (
	TargetJSON Target = "json"
	TargetYAML Target = "yaml"
	TargetTOML Target = "toml"
	TargetCSV  Target = "csv"
)

// String returns the target name.
func (t Target) String() string { return string(t) }

var nameAliases = map[string]string{
	"md":       string(FormatMarkdownTable),
	"markdown": string(FormatMarkdownTable),
	"yml":      string(TargetYAML),
	"jsonl":    string(FormatNDJSON),
}

// NormalizeName folds a user supplied format or target name to its canonical
// snake_case spelling, so "YAML", "MarkdownTable" and "markdown-table" all
// resolve.
func NormalizeName(name string) string {
	n := strcase.ToSnake(strings.TrimSpace(name))
	if alias, ok := nameAliases[n]; ok {
		return alias
	}
	return n
}
