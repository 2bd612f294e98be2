//go:build !llmkit_notoml

package serializer

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nishanthkj/llmkit/internal/analyzer"
	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/models"
)

func init() {
	register(models.TargetTOML, TOML)
}

// TOML renders a mapping as a TOML document. TOML has no null: null mapping
// entries are omitted and a null inside an array is a narrowing error, as is
// any top-level value that is not a mapping.
func TOML(v models.Value, _ Options) (string, error) {
	target := string(models.TargetTOML)
	m, ok := v.(*models.Mapping)
	if !ok {
		return "", errors.NewNarrowingError(target,
			fmt.Sprintf("top-level value is a %s, not a mapping", kindName(v)),
			errors.ErrTopLevelNotTable)
	}
	if shape := analyzer.NewAnalyzer().Analyze(v); shape.NullInSequence != "" {
		return "", errors.NewNarrowingError(target,
			fmt.Sprintf("null array element at %s", shape.NullInSequence),
			errors.ErrNullInArray)
	}

	doc, err := tomlTable(m)
	if err != nil {
		return "", errors.NewNarrowingError(target, err.Error(), err)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(doc); err != nil {
		return "", errors.NewNarrowingError(target, "encoder rejected value", err)
	}
	return buf.String(), nil
}

func tomlTable(m *models.Mapping) (map[string]any, error) {
	out := make(map[string]any, m.Len())
	for k, item := range m.All() {
		if _, isNull := item.(models.Null); isNull {
			continue
		}
		native, err := tomlValue(item)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = native
	}
	return out, nil
}

func tomlValue(v models.Value) (any, error) {
	switch val := v.(type) {
	case models.Bool:
		return bool(val), nil
	case models.String:
		return string(val), nil
	case models.Number:
		if val.IsInteger() {
			i, err := val.Int64()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", val, errors.ErrIntegerOverflow)
			}
			return i, nil
		}
		return val.Float64()
	case models.Sequence:
		items := make([]any, 0, len(val))
		for _, item := range val {
			native, err := tomlValue(item)
			if err != nil {
				return nil, err
			}
			items = append(items, native)
		}
		return items, nil
	case *models.Mapping:
		return tomlTable(val)
	default:
		return nil, errors.ErrNullInArray
	}
}
