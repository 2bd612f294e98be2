//go:build !llmkit_noyaml

package serializer

import (
	"testing"

	"github.com/nishanthkj/llmkit/internal/models"
	"github.com/nishanthkj/llmkit/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAML(t *testing.T) {
	tests := []struct {
		name     string
		value    models.Value
		expected string
	}{
		{"flat mapping", mapping("a", models.Number("1"), "b", models.String("x")), "a: 1\nb: x\n"},
		{"keeps key order", mapping("z", models.Bool(true), "a", models.Null{}), "z: true\na: null\n"},
		{"top-level scalar", models.String("x"), "x\n"},
		{"top-level sequence", models.Sequence{models.Number("1"), models.String("a")}, "- 1\n- a\n"},
		{"number-like string is quoted", models.String("30"), "\"30\"\n"},
		{"bool-like string is quoted", models.String("true"), "\"true\"\n"},
		{"empty sequence", models.Sequence{}, "[]\n"},
		{"float", models.Number("2.5"), "2.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := YAML(tt.value, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	for name, v := range sampleValues() {
		t.Run(name, func(t *testing.T) {
			out, err := YAML(v, Options{})
			require.NoError(t, err)

			back, err := parser.ParseYAML(out)
			require.NoError(t, err)
			assert.True(t, models.Equal(v, back), "round trip changed value:\n%s", out)
		})
	}
}

func TestYAML_AlwaysAvailable(t *testing.T) {
	target, err := ParseTarget("Yaml")
	require.NoError(t, err)
	assert.Equal(t, models.TargetYAML, target)

	out, err := Render(models.TargetYAML, models.Number("7"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}
