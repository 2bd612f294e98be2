// Package fence strips the Markdown code fence that model output often wraps
// around structured data.
package fence

import (
	"strings"
)

const bom = "\uFEFF"

// Extract returns the content of the first fenced code block in input. A
// fence opens with a line of three or more backticks, optionally followed by
// a language tag, and closes with a line holding at least as many backticks.
// Without a complete fenced block, a single pair of backticks wrapping the
// whole input is removed; otherwise input is returned unchanged apart from a
// leading byte order mark.
func Extract(input string) string {
	input = strings.TrimPrefix(input, bom)

	if inner, ok := extractBlock(input); ok {
		return inner
	}
	if inner, ok := extractInline(input); ok {
		return inner
	}
	return input
}

// Lang returns the language tag of the first fenced block, or "" when there
// is none.
func Lang(input string) string {
	for _, line := range strings.Split(strings.TrimPrefix(input, bom), "\n") {
		if _, tag, ok := openingFence(line); ok {
			return tag
		}
	}
	return ""
}

func extractBlock(input string) (string, bool) {
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		run, _, ok := openingFence(line)
		if !ok {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if closingFence(lines[j], run) {
				inner := lines[i+1 : j]
				for k := range inner {
					inner[k] = strings.TrimSuffix(inner[k], "\r")
				}
				return strings.Join(inner, "\n"), true
			}
		}
		// An opening fence without a closing one is not a block
		return "", false
	}
	return "", false
}

// openingFence reports the backtick run length and language tag of a fence
// opening line.
func openingFence(line string) (int, string, bool) {
	trimmed := strings.TrimSpace(line)
	run := countBackticks(trimmed)
	if run < 3 {
		return 0, "", false
	}
	tag := strings.TrimSpace(trimmed[run:])
	if strings.Contains(tag, "`") || strings.ContainsAny(tag, " \t") {
		return 0, "", false
	}
	return run, tag, true
}

func closingFence(line string, run int) bool {
	trimmed := strings.TrimSpace(line)
	n := countBackticks(trimmed)
	return n >= run && n == len(trimmed)
}

func countBackticks(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

func extractInline(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) < 2 || trimmed[0] != '`' || trimmed[len(trimmed)-1] != '`' {
		return "", false
	}
	inner := trimmed[1 : len(trimmed)-1]
	if strings.Contains(inner, "`") {
		return "", false
	}
	return inner, true
}
