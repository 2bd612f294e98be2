package serializer

import (
	"bytes"
	"encoding/json"

	"github.com/nishanthkj/llmkit/internal/models"
)

func init() {
	register(models.TargetJSON, JSONPretty)
}

// JSONCompact renders v as single-line JSON.
func JSONCompact(v models.Value, opts Options) (string, error) {
	out, err := models.EncodeJSON(v, opts.EscapeHTML)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// JSONPretty renders v as indented JSON.
func JSONPretty(v models.Value, opts Options) (string, error) {
	opts = opts.withDefaults()
	compact, err := models.EncodeJSON(v, opts.EscapeHTML)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", opts.JSONIndent); err != nil {
		return "", err
	}
	return buf.String(), nil
}
