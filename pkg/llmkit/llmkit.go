// Package llmkit converts model-generated structured text of unknown format
// into a bundle of renderings.
//
// Convert strips an optional code fence, detects the format (JSON, NDJSON,
// YAML, TOML, CSV or a Markdown table), parses it into a canonical value and
// renders that value into each requested target. Detection and parse
// failures abort the conversion; a target that cannot represent the value is
// skipped and reported in Bundle.Skipped.
//
// Convert is stateless and safe for concurrent use.
package llmkit

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"

	"github.com/nishanthkj/llmkit/internal/analyzer"
	"github.com/nishanthkj/llmkit/internal/detector"
	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/fence"
	"github.com/nishanthkj/llmkit/internal/htmltable"
	"github.com/nishanthkj/llmkit/internal/logging"
	"github.com/nishanthkj/llmkit/internal/models"
	"github.com/nishanthkj/llmkit/internal/parser"
	"github.com/nishanthkj/llmkit/internal/serializer"
)

type (
	// Format is a detected input format.
	Format = models.Format
	// Target is a render target.
	Target = models.Target
	// Value is the canonical value every parser produces.
	Value = models.Value
	// RenderOptions tunes the target renderings.
	RenderOptions = serializer.Options
)

// Options configures a single conversion. The zero value renders every
// available target.
type Options struct {
	// Targets names the requested renderings. Nil or empty means every
	// target compiled into this build.
	Targets []string
	// Permissive repairs malformed JSON and recovers HTML tables that strict
	// detection rejects.
	Permissive bool
	// MaxBytes truncates the input before any processing. Zero means no limit.
	MaxBytes int
	Render   RenderOptions
	// Logger receives stage transitions at DEBUG and skipped targets at WARN.
	// Nil discards them.
	Logger *slog.Logger
}

// AvailableTargets returns the targets compiled into this build.
func AvailableTargets() []Target {
	return serializer.Available()
}

// Convert runs the full pipeline over input.
func Convert(input []byte, opts Options) (*Bundle, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	targets, err := ResolveTargets(opts.Targets)
	if err != nil {
		return nil, fail(StageReceived, err)
	}
	log.Debug("stage", "stage", StageReceived, "bytes", len(input), "targets", targets)

	text := fence.Extract(decode(input, opts.MaxBytes))
	log.Debug("stage", "stage", StageExtracted, "bytes", len(text), "fence", fence.Lang(string(input)))

	b := &Bundle{
		Original:   text,
		Renderings: make(map[Target]string, len(targets)),
	}
	if strings.TrimSpace(text) == "" {
		return nil, fail(StageDetected, errors.NewDetectionError("nothing to classify after fence extraction", errors.ErrEmptyInput))
	}

	b.Format = detector.Detect(text)
	recovered := false
	if opts.Permissive && b.Format == models.FormatUnknown {
		if fixed, format, ok := recoverText(text, log); ok {
			text, b.Format, recovered = fixed, format, true
		}
	}
	if b.Format == models.FormatUnknown {
		return nil, fail(StageDetected, errors.NewDetectionError("no format heuristic matched the input", errors.ErrUnknownFormat))
	}
	log.Debug("stage", "stage", StageDetected, "format", b.Format)

	b.Value, err = parser.Parse(text, b.Format)
	if err != nil && opts.Permissive && !recovered {
		// Input the strict parser accepts is never rewritten.
		if fixed, format, ok := recoverText(text, log); ok {
			if v, rerr := parser.Parse(fixed, format); rerr == nil {
				log.Debug("recovered after parse failure", "detected", b.Format, "format", format)
				b.Format, b.Value, err = format, v, nil
			}
		}
	}
	if err != nil {
		return nil, fail(StageParsed, err)
	}
	shape := analyzer.NewAnalyzer().Analyze(b.Value)
	log.Debug("stage", "stage", StageParsed,
		"root", shape.Root,
		"depth", shape.Depth,
		"nodes", shape.NodeCount(),
		"tabular", shape.Tabular,
	)

	if b.Beautified, err = serializer.Render(models.TargetJSON, b.Value, opts.Render); err != nil {
		return nil, fail(StageRendered, err)
	}
	if b.Normal, err = serializer.JSONCompact(b.Value, opts.Render); err != nil {
		return nil, fail(StageRendered, errors.NewOutputError("compact JSON rendering failed", err))
	}

	// Each target renders independently; a narrowing failure only drops
	// that target.
	for _, t := range targets {
		out, err := serializer.Render(t, b.Value, opts.Render)
		if err != nil {
			var appErr *errors.AppError
			if stderrors.As(err, &appErr) && !appErr.Fatal() {
				log.Warn("skipping target", "target", t, "reason", appErr.Message)
				b.Skipped = append(b.Skipped, Skip{Target: t, Err: err})
				continue
			}
			return nil, fail(StageRendered, err)
		}
		b.Renderings[t] = out
		b.Targets = append(b.Targets, t)
	}
	log.Debug("stage", "stage", StageRendered, "rendered", len(b.Targets), "skipped", len(b.Skipped))
	log.Debug("stage", "stage", StageDone)

	return b, nil
}

// ResolveTargets validates requested target names and removes duplicates,
// keeping request order. An empty request yields every available target.
func ResolveTargets(names []string) ([]Target, error) {
	if len(names) == 0 {
		return serializer.Available(), nil
	}
	targets := make([]Target, 0, len(names))
	for _, name := range names {
		t, err := serializer.ParseTarget(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(targets, t) {
			targets = append(targets, t)
		}
	}
	return targets, nil
}

// decode truncates input to maxBytes on a rune boundary and replaces
// invalid UTF-8 with U+FFFD.
func decode(input []byte, maxBytes int) string {
	if maxBytes > 0 && len(input) > maxBytes {
		cut := maxBytes
		for cut > 0 && !utf8.RuneStart(input[cut]) {
			cut--
		}
		input = input[:cut]
	}
	return strings.ToValidUTF8(string(input), "\uFFFD")
}

// recoverText applies the permissive fallbacks to text that strict
// detection or parsing rejected: JSON repair first, then HTML table
// conversion.
func recoverText(text string, log *slog.Logger) (string, Format, bool) {
	if repaired, ok := repairJSON(text, log); ok {
		return repaired, models.FormatJSON, true
	}
	if htmltable.Looks(text) {
		md, err := htmltable.ToMarkdown(text)
		if err == nil {
			log.Debug("recovered HTML table", "bytes", len(md))
			return md, models.FormatMarkdownTable, true
		}
		log.Debug("html table recovery failed", "error", err)
	}
	return "", "", false
}

// repairJSON attempts to fix text that opens like JSON but does not parse.
func repairJSON(text string, log *slog.Logger) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return "", false
	}
	repaired, err := jsonrepair.JSONRepair(trimmed)
	if err != nil {
		log.Debug("json repair failed", "error", err)
		return "", false
	}
	if !json.Valid([]byte(repaired)) {
		log.Debug("json repair produced invalid JSON")
		return "", false
	}
	log.Debug("repaired malformed JSON", "before", len(trimmed), "after", len(repaired))
	return repaired, true
}

func fail(stage Stage, err error) error {
	return &Error{Stage: stage, Err: err}
}

// Error reports the pipeline stage a conversion failed at.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed at %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
