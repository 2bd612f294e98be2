//go:build !llmkit_nocsv

package serializer

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/nishanthkj/llmkit/internal/analyzer"
	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/models"
)

func init() {
	register(models.TargetCSV, CSV)
}

// CSV renders a sequence of flat mappings. The header is the union of row
// keys in first-seen order; a missing key or a null renders as an empty
// cell. Anything that is not a sequence of flat mappings is a narrowing
// error rather than a lossy flattening.
func CSV(v models.Value, opts Options) (string, error) {
	opts = opts.withDefaults()
	target := string(models.TargetCSV)

	rows, ok := v.(models.Sequence)
	if !ok {
		return "", errors.NewNarrowingError(target,
			fmt.Sprintf("value is a %s, not a sequence of mappings", kindName(v)),
			errors.ErrNotTabular)
	}
	shape := analyzer.NewAnalyzer().Analyze(rows)
	if shape.NonMappingRow >= 0 {
		return "", errors.NewNarrowingError(target,
			fmt.Sprintf("row %d is a %s, not a mapping", shape.NonMappingRow+1, kindName(rows[shape.NonMappingRow])),
			errors.ErrNotTabular)
	}
	if shape.NestedCell != "" {
		return "", errors.NewNarrowingError(target,
			fmt.Sprintf("nested value at %s", shape.NestedCell),
			errors.ErrNestedCell)
	}
	if len(rows) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = opts.CSVDelimiter
	if err := cw.Write(shape.Columns); err != nil {
		return "", err
	}
	record := make([]string, len(shape.Columns))
	for _, row := range rows {
		m := row.(*models.Mapping)
		for i, col := range shape.Columns {
			cell, _ := m.Get(col)
			record[i] = cellText(cell)
		}
		if err := cw.Write(record); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func cellText(v models.Value) string {
	switch val := v.(type) {
	case models.Bool:
		return fmt.Sprint(bool(val))
	case models.Number:
		return string(val)
	case models.String:
		return string(val)
	default:
		// Missing and null cells
		return ""
	}
}
