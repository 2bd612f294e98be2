package parser

import (
	"strings"

	"github.com/nishanthkj/llmkit/internal/detector"
	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/models"
)

// ParseMarkdownTable reads the first pipe table: headers from the line above
// the |---| separator and one mapping per row below it. Rows end at the
// first line without a pipe.
func ParseMarkdownTable(text string) (models.Value, error) {
	lines := strings.Split(text, "\n")
	idx, ok := detector.MarkdownHeaderIndex(lines)
	if !ok {
		return nil, errors.NewParsingError(string(models.FormatMarkdownTable), "no header and separator line found", nil)
	}
	headers := uniqueHeaders(splitTableRow(lines[idx]))

	rows := models.Sequence{}
	for _, line := range lines[idx+2:] {
		if !strings.Contains(line, "|") {
			break
		}
		rows = append(rows, rowMapping(headers, splitTableRow(line)))
	}
	return rows, nil
}

// splitTableRow splits a row on unescaped pipes. Leading and trailing pipes
// are optional and \| stands for a literal pipe.
func splitTableRow(line string) []string {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}
