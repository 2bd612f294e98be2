package parser

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/models"
)

// ParseCSV treats the first record as the header and returns every later
// record as a mapping from header name to promoted cell value.
func ParseCSV(text string) (models.Value, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError(string(models.FormatCSV), "missing header row", errors.ErrEmptyInput)
		}
		return nil, errors.NewParsingError(string(models.FormatCSV), describeCSVError(err), err)
	}
	headers := uniqueHeaders(header)

	rows := models.Sequence{}
	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(string(models.FormatCSV), describeCSVError(err), err)
		}
		rows = append(rows, rowMapping(headers, record))
	}
	return rows, nil
}

func describeCSVError(err error) string {
	var perr *csv.ParseError
	if stderrors.As(err, &perr) {
		return fmt.Sprintf("CSV syntax error at line %d, column %d", perr.Line, perr.Column)
	}
	return "failed to read CSV"
}
