// Package detector classifies text as one of the supported structured
// formats using an ordered chain of independent rules. The first rule that
// matches wins; there is no scoring across rules.
package detector

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/nishanthkj/llmkit/internal/models"
)

// Rule is a single classification heuristic. Match must be pure: it only
// looks at text and reports whether the text has this rule's format.
type Rule struct {
	Format models.Format
	Match  func(text string) bool
}

// Rules is the detection chain in priority order. JSON and NDJSON come first
// since a structural parse either succeeds or fails cleanly; CSV comes last
// since commas alone are the weakest signal.
var Rules = []Rule{
	{Format: models.FormatJSON, Match: IsJSON},
	{Format: models.FormatNDJSON, Match: IsNDJSON},
	{Format: models.FormatMarkdownTable, Match: IsMarkdownTable},
	{Format: models.FormatTOML, Match: IsTOML},
	{Format: models.FormatYAML, Match: IsYAML},
	{Format: models.FormatCSV, Match: IsCSV},
}

// Detect returns the format of the first rule in Rules that matches text, or
// models.FormatUnknown when none does.
func Detect(text string) models.Format {
	for _, rule := range Rules {
		if rule.Match(text) {
			return rule.Format
		}
	}
	return models.FormatUnknown
}

// IsJSON matches text whose first non-blank character opens an object or
// array and which parses as exactly one JSON value.
func IsJSON(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	return json.Valid([]byte(trimmed))
}

// IsNDJSON matches two or more non-blank lines that each parse as a complete
// JSON value on their own. A pretty-printed document fails this rule since
// its lines are fragments.
func IsNDJSON(text string) bool {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return false
	}
	for _, line := range lines {
		if !json.Valid([]byte(strings.TrimSpace(line))) {
			return false
		}
	}
	return true
}

var markdownSeparatorRegex = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?\s*$`)

// IsMarkdownTable matches a line containing a pipe followed directly by a
// |---|---| separator line.
func IsMarkdownTable(text string) bool {
	_, ok := MarkdownHeaderIndex(strings.Split(text, "\n"))
	return ok
}

// MarkdownHeaderIndex returns the index of the first header line that is
// immediately followed by a table separator line.
func MarkdownHeaderIndex(lines []string) (int, bool) {
	for i := 0; i+1 < len(lines); i++ {
		if !strings.Contains(lines[i], "|") {
			continue
		}
		sep := strings.TrimSpace(lines[i+1])
		if strings.Contains(sep, "|") && markdownSeparatorRegex.MatchString(sep) {
			return i, true
		}
	}
	return 0, false
}

var (
	tomlKey            = `(?:[A-Za-z0-9_\-]+|"[^"\n]*"|'[^'\n]*')`
	tomlTableRegex     = regexp.MustCompile(`^\s*\[\[?\s*` + tomlKey + `(?:\s*\.\s*` + tomlKey + `)*\s*\]\]?\s*(?:#.*)?$`)
	tomlKeyValueRegex  = regexp.MustCompile(`^\s*` + tomlKey + `(?:\s*\.\s*` + tomlKey + `)*\s*=(?:[^=]|$)`)
	yamlKeyValueRegex  = regexp.MustCompile(`^\s*(?:-\s+)?(?:"[^"]*"|'[^']*'|[^\s#\-\[\]{}"',:|>!&*%@` + "`" + `][^#:,]*?)\s*:(?:\s|$)`)
	yamlBlockItemRegex = regexp.MustCompile(`^\s*-(?:\s|$)`)
)

// IsTOML matches a [table] or [[array.table]] header line, or a key = value
// line whose equals sign follows a bare or quoted key.
func IsTOML(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if tomlTableRegex.MatchString(line) || tomlKeyValueRegex.MatchString(line) {
			return true
		}
	}
	return false
}

// IsYAML matches a key: value line or a block sequence item. It runs after
// IsTOML, so bracketed sections and equals-sign pairs never reach it. A bare
// key never holds a comma, and comma-stable text whose header line is not a
// key: value pair is left to IsCSV, so cells like "note: hi" stay CSV.
func IsYAML(text string) bool {
	if lines := nonBlankLines(text); len(lines) > 0 && IsCSV(text) && !yamlKeyValueRegex.MatchString(lines[0]) {
		return false
	}
	for _, line := range strings.Split(text, "\n") {
		if yamlKeyValueRegex.MatchString(line) || yamlBlockItemRegex.MatchString(line) {
			return true
		}
	}
	return false
}

// IsCSV matches two or more non-blank lines that all carry the same,
// non-zero number of commas outside double quotes.
func IsCSV(text string) bool {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return false
	}
	want := countCommas(lines[0])
	if want == 0 {
		return false
	}
	for _, line := range lines[1:] {
		if countCommas(line) != want {
			return false
		}
	}
	return true
}

func countCommas(line string) int {
	n := 0
	inQuotes := false
	for _, r := range line {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				n++
			}
		}
	}
	return n
}

func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
