package parser

import (
	"fmt"

	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/models"
)

// Parse converts text of the given detected format into a canonical value.
// Failure is reported as a parsing error naming the format; no other format
// is tried.
func Parse(text string, format models.Format) (models.Value, error) {
	switch format {
	case models.FormatJSON:
		return ParseJSON(text)
	case models.FormatNDJSON:
		return ParseNDJSON(text)
	case models.FormatYAML:
		return ParseYAML(text)
	case models.FormatTOML:
		return ParseTOML(text)
	case models.FormatCSV:
		return ParseCSV(text)
	case models.FormatMarkdownTable:
		return ParseMarkdownTable(text)
	case models.FormatUnknown:
		return nil, errors.NewDetectionError("cannot parse input of unknown format", errors.ErrUnknownFormat)
	default:
		return nil, errors.NewParsingError(string(format), fmt.Sprintf("no parser for format %q", format), nil)
	}
}
