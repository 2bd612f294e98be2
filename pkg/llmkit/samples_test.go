package llmkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nishanthkj/llmkit/internal/models"
)

func readSample(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "samples", name))
	require.NoError(t, err)
	return data
}

func TestConvert_Samples(t *testing.T) {
	tests := []struct {
		file    string
		format  Format
		normal  string
		skipped []Target
	}{
		{
			file:    "fenced_yaml.md",
			format:  models.FormatYAML,
			normal:  `{"service":{"name":"checkout","replicas":3,"ports":[8080,8443],"debug":false}}`,
			skipped: []Target{models.TargetCSV},
		},
		{
			file:    "fenced_json.md",
			format:  models.FormatJSON,
			normal:  `{"user":{"id":42,"name":"Alice","roles":["admin","dev"]},"tags":[],"score":9.75,"manager":null}`,
			skipped: []Target{models.TargetCSV},
		},
		{
			file:    "table.md",
			format:  models.FormatMarkdownTable,
			normal:  `[{"model":"llama","params":70,"open":true},{"model":"gpt-x","params":175,"open":false}]`,
			skipped: []Target{models.TargetTOML},
		},
		{
			file:    "events.ndjson",
			format:  models.FormatNDJSON,
			normal:  `[{"event":"start","ts":1700000000,"ok":true},{"event":"retry","ts":1700000005,"ok":false},{"event":"stop","ts":1700000010,"ok":true}]`,
			skipped: []Target{models.TargetTOML},
		},
		{
			file:    "report.toml",
			format:  models.FormatTOML,
			normal:  `{"title":"Quarterly report","owner":{"name":"Ada","team":"infra"},"metrics":[{"name":"latency_p99","value":12.5},{"name":"errors","value":3}]}`,
			skipped: []Target{models.TargetCSV},
		},
		{
			file:    "people.csv",
			format:  models.FormatCSV,
			normal:  `[{"id":1,"name":"Alice","email":"alice@example.com","active":true},{"id":2,"name":"Bob","email":null,"active":false},{"id":3,"name":"Carol, Jr.","email":"carol@example.com","active":true}]`,
			skipped: []Target{models.TargetTOML},
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			b, err := Convert(readSample(t, tt.file), Options{})
			require.NoError(t, err)

			assert.Equal(t, tt.format, b.Format)
			assert.Equal(t, tt.normal, b.Normal)
			var skipped []Target
			for _, target := range tt.skipped {
				if compiled(target) {
					skipped = append(skipped, target)
				}
			}
			assert.ElementsMatch(t, skipped, b.SkippedTargets())
			assert.Len(t, b.Targets, len(AvailableTargets())-len(skipped))
		})
	}
}

func TestConvert_TruncatedSampleNeedsPermissive(t *testing.T) {
	input := readSample(t, "truncated.json")

	_, err := Convert(input, Options{})
	requireStageError(t, err, StageDetected)

	b, err := Convert(input, Options{Permissive: true})
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"42","sources":["a","b"],"confidence":0.9}`, b.Normal)
}
