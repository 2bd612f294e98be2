package parser

import (
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"strings"

	"github.com/nishanthkj/llmkit/internal/errors" // Custom errors package
	"github.com/nishanthkj/llmkit/internal/models"
)

// ParseJSON parses a single JSON value. Object keys keep their document
// order; a repeated key keeps its first position and its last value.
func ParseJSON(text string) (models.Value, error) {
	v, err := decodeSingle(text)
	if err != nil {
		return nil, errors.NewParsingError(string(models.FormatJSON), describeJSONError(err), err)
	}
	return v, nil
}

// ParseNDJSON parses one JSON value per non-blank line and returns them as a
// sequence.
func ParseNDJSON(text string) (models.Value, error) {
	seq := models.Sequence{}
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := decodeSingle(line)
		if err != nil {
			return nil, errors.NewParsingError(
				string(models.FormatNDJSON),
				fmt.Sprintf("line %d: %s", i+1, describeJSONError(err)),
				err,
			)
		}
		seq = append(seq, v)
	}
	return seq, nil
}

func decodeSingle(text string) (models.Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.ErrEmptyInput
	}
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber() // Ensure numbers are read as json.Number

	v, err := decodeValue(decoder)
	if err != nil {
		return nil, err
	}

	// Anything but EOF after the first value is trailing data
	if _, err := decoder.Token(); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errMultipleValues
	}
	return v, nil
}

var errMultipleValues = stderrors.New("multiple JSON values found at the root")

func decodeValue(decoder *json.Decoder) (models.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := models.NewMapping()
			for decoder.More() {
				keyTok, err := decoder.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not a string", keyTok)
				}
				v, err := decodeValue(decoder)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if err := closeToken(decoder); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			seq := models.Sequence{}
			for decoder.More() {
				v, err := decodeValue(decoder)
				if err != nil {
					return nil, err
				}
				seq = append(seq, v)
			}
			if err := closeToken(decoder); err != nil {
				return nil, err
			}
			return seq, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return models.String(t), nil
	case json.Number:
		return models.Number(t), nil
	case bool:
		return models.Bool(t), nil
	case nil:
		return models.Null{}, nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

// closeToken consumes the delimiter that ends an object or array.
func closeToken(decoder *json.Decoder) error {
	if _, err := decoder.Token(); err != nil {
		if stderrors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func describeJSONError(err error) string {
	var syntaxError *json.SyntaxError
	switch {
	case stderrors.As(err, &syntaxError):
		return fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset)
	case stderrors.Is(err, io.ErrUnexpectedEOF):
		return "unexpected end of JSON input"
	case stderrors.Is(err, errors.ErrEmptyInput):
		return "input is empty or contains only whitespace"
	case stderrors.Is(err, errMultipleValues):
		return "multiple JSON values found at the root, only one is allowed"
	default:
		return "failed to decode JSON"
	}
}
