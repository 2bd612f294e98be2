// Package serializer renders canonical values into target formats. JSON is
// always available; YAML, TOML and CSV each register themselves unless
// excluded with the llmkit_noyaml, llmkit_notoml or llmkit_nocsv build tags.
package serializer

import (
	stderrors "errors"
	"fmt"

	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/models"
)

// Options tunes rendering. The zero value is usable.
type Options struct {
	JSONIndent   string // default two spaces
	EscapeHTML   bool
	YAMLIndent   int  // default 2
	CSVDelimiter rune // default ','
}

func (o Options) withDefaults() Options {
	if o.JSONIndent == "" {
		o.JSONIndent = "  "
	}
	if o.YAMLIndent <= 0 {
		o.YAMLIndent = 2
	}
	if o.CSVDelimiter == 0 {
		o.CSVDelimiter = ','
	}
	return o
}

// Func renders a value into one target format.
type Func func(v models.Value, opts Options) (string, error)

// knownTargets lists every target name in default rendering order, compiled
// in or not.
var knownTargets = []models.Target{
	models.TargetJSON,
	models.TargetYAML,
	models.TargetTOML,
	models.TargetCSV,
}

var registry = map[models.Target]Func{}

func register(t models.Target, f Func) {
	registry[t] = f
}

// Available returns the targets compiled into this build, in default order.
func Available() []models.Target {
	out := make([]models.Target, 0, len(knownTargets))
	for _, t := range knownTargets {
		if _, ok := registry[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// ParseTarget resolves a user supplied target name. Unknown names and names
// of targets left out of this build are configuration errors.
func ParseTarget(name string) (models.Target, error) {
	normalized := models.NormalizeName(name)
	for _, t := range knownTargets {
		if string(t) != normalized {
			continue
		}
		if _, ok := registry[t]; !ok {
			return "", errors.NewConfigurationError(
				fmt.Sprintf("target %q is not available in this build", t),
				errors.ErrTargetNotCompiled,
			)
		}
		return t, nil
	}
	return "", errors.NewConfigurationError(
		fmt.Sprintf("unknown target %q (available: %v)", name, Available()),
		errors.ErrUnsupportedTarget,
	)
}

// Render renders v into target t. A target that cannot represent v returns
// a narrowing error naming t.
func Render(t models.Target, v models.Value, opts Options) (string, error) {
	f, ok := registry[t]
	if !ok {
		return "", errors.NewConfigurationError(fmt.Sprintf("target %q is not available", t), errors.ErrTargetNotCompiled)
	}
	out, err := f(v, opts.withDefaults())
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return "", err
		}
		return "", errors.NewNarrowingError(string(t), err.Error(), err)
	}
	return out, nil
}

func kindName(v models.Value) string {
	if v == nil {
		return models.KindNull.String()
	}
	return v.Kind().String()
}
