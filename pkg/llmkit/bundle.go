package llmkit

import (
	"fmt"

	"github.com/nishanthkj/llmkit/internal/models"
)

// Stage is a step of the conversion pipeline.
type Stage int

const (
	StageReceived Stage = iota
	StageExtracted
	StageDetected
	StageParsed
	StageRendered
	StageDone
)

var stageNames = [...]string{"received", "extracted", "detected", "parsed", "rendered", "done"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Bundle keys that are always present.
const (
	KeyFormat     = "Format"
	KeyOriginal   = "Original"
	KeyBeautified = "Beautified"
	KeyNormal     = "normal"
)

// Skip records a requested target that could not represent the value.
type Skip struct {
	Target Target
	Err    error
}

// Bundle is the result of one conversion.
type Bundle struct {
	Format Format
	// Original is the input after truncation and fence extraction.
	Original   string
	Beautified string
	Normal     string
	// Renderings holds one string per successfully rendered target.
	Renderings map[Target]string
	// Targets lists the rendered targets in request order.
	Targets []Target
	Skipped []Skip
	Value   Value
}

// Map returns the flat bundle: Format, Original, Beautified, normal and one
// key per rendered target.
func (b *Bundle) Map() map[string]string {
	m := make(map[string]string, 4+len(b.Renderings))
	m[KeyFormat] = string(b.Format)
	m[KeyOriginal] = b.Original
	m[KeyBeautified] = b.Beautified
	m[KeyNormal] = b.Normal
	for t, out := range b.Renderings {
		m[string(t)] = out
	}
	return m
}

// MarshalJSON renders the flat bundle with the fixed keys first and the
// targets in request order.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	doc := models.NewMapping()
	doc.Set(KeyFormat, models.String(b.Format))
	doc.Set(KeyOriginal, models.String(b.Original))
	doc.Set(KeyBeautified, models.String(b.Beautified))
	doc.Set(KeyNormal, models.String(b.Normal))
	for _, t := range b.Targets {
		doc.Set(string(t), models.String(b.Renderings[t]))
	}
	return models.EncodeJSON(doc, false)
}

// SkippedTargets returns the names of skipped targets in request order.
func (b *Bundle) SkippedTargets() []Target {
	out := make([]Target, 0, len(b.Skipped))
	for _, s := range b.Skipped {
		out = append(out, s.Target)
	}
	return out
}
