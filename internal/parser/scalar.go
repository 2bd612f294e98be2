package parser

import (
	"fmt"
	"strings"

	"github.com/nishanthkj/llmkit/internal/models"
)

// PromoteScalar types a bare text cell. Empty text and "null" become Null,
// "true" and "false" become Bool, and text that is a valid JSON number
// literal becomes Number. Everything else stays a String, so "007", "+5" and
// "0x1F" are kept verbatim.
func PromoteScalar(text string) models.Value {
	switch text {
	case "", "null":
		return models.Null{}
	case "true":
		return models.Bool(true)
	case "false":
		return models.Bool(false)
	}
	if n, ok := models.ParseNumber(text); ok {
		return n
	}
	return models.String(text)
}

// uniqueHeaders names blank headers column_N and suffixes repeated names
// with _2, _3 and so on so that row mappings keep every column.
func uniqueHeaders(raw []string) []string {
	seen := make(map[string]int, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		name := h
		for seen[name] > 0 {
			seen[h]++
			name = fmt.Sprintf("%s_%d", h, seen[h])
		}
		seen[name]++
		out[i] = name
	}
	return out
}

// rowMapping pairs headers with cells. Missing cells become Null and cells
// beyond the header are dropped.
func rowMapping(headers, cells []string) *models.Mapping {
	m := models.NewMapping()
	for i, h := range headers {
		if i < len(cells) {
			m.Set(h, PromoteScalar(strings.TrimSpace(cells[i])))
		} else {
			m.Set(h, models.Null{})
		}
	}
	return m
}
