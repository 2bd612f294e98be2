package parser

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/models"
)

const tomlPathSep = "\x00"

// ParseTOML parses a TOML document into nested mappings. Keys keep the order
// in which they first appear in the document; arrays of tables become
// sequences of mappings and datetimes keep their TOML text.
func ParseTOML(text string) (models.Value, error) {
	var raw map[string]any
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		msg := "invalid TOML document"
		var perr toml.ParseError
		if stderrors.As(err, &perr) {
			msg = fmt.Sprintf("invalid TOML document at line %d", perr.Position.Line)
		}
		return nil, errors.NewParsingError(string(models.FormatTOML), msg, err)
	}

	order := make(map[string]int)
	for i, key := range meta.Keys() {
		path := strings.Join(key, tomlPathSep)
		if _, seen := order[path]; !seen {
			order[path] = i
		}
	}

	v, err := convertTOML(raw, "", order)
	if err != nil {
		return nil, errors.NewParsingError(string(models.FormatTOML), err.Error(), err)
	}
	return v, nil
}

func convertTOML(raw any, path string, order map[string]int) (models.Value, error) {
	switch v := raw.(type) {
	case map[string]any:
		return convertTOMLTable(v, path, order)
	case []map[string]any:
		seq := make(models.Sequence, 0, len(v))
		for _, table := range v {
			m, err := convertTOMLTable(table, path, order)
			if err != nil {
				return nil, err
			}
			seq = append(seq, m)
		}
		return seq, nil
	case []any:
		seq := make(models.Sequence, 0, len(v))
		for _, item := range v {
			converted, err := convertTOML(item, path, order)
			if err != nil {
				return nil, err
			}
			seq = append(seq, converted)
		}
		return seq, nil
	case string:
		return models.String(v), nil
	case bool:
		return models.Bool(v), nil
	case int64:
		return models.IntNumber(v), nil
	case float64:
		if n, ok := models.FloatNumber(v); ok {
			return n, nil
		}
		// nan and inf have no JSON literal
		return models.String(fmt.Sprint(v)), nil
	case time.Time:
		return models.String(formatTOMLTime(v)), nil
	default:
		return nil, fmt.Errorf("unsupported TOML value of type %T", raw)
	}
}

func convertTOMLTable(table map[string]any, path string, order map[string]int) (*models.Mapping, error) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	childPath := func(k string) string {
		if path == "" {
			return k
		}
		return path + tomlPathSep + k
	}
	sort.SliceStable(keys, func(i, j int) bool {
		oi, iok := order[childPath(keys[i])]
		oj, jok := order[childPath(keys[j])]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})

	m := models.NewMapping()
	for _, k := range keys {
		v, err := convertTOML(table[k], childPath(k), order)
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}

// formatTOMLTime renders a decoded datetime in its TOML spelling. Local
// dates and times decode with a named location rather than an offset.
func formatTOMLTime(t time.Time) string {
	switch t.Location().String() {
	case "date-local":
		return t.Format("2006-01-02")
	case "time-local":
		return t.Format("15:04:05.999999999")
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	default:
		return t.Format(time.RFC3339Nano)
	}
}
