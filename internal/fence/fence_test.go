package fence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"a\":1}\n```",
			expected: `{"a":1}`,
		},
		{
			name:     "fence without language tag",
			input:    "```\na: 1\nb: 2\n```\n",
			expected: "a: 1\nb: 2",
		},
		{
			name:     "prose around the fence",
			input:    "Here is the data:\n\n```yaml\nname: x\n```\n\nLet me know!",
			expected: "name: x",
		},
		{
			name:     "first of several blocks",
			input:    "```json\n[1]\n```\ntext\n```json\n[2]\n```",
			expected: "[1]",
		},
		{
			name:     "longer fence keeps inner backticks",
			input:    "````md\n```\ninner\n```\n````",
			expected: "```\ninner\n```",
		},
		{
			name:     "crlf line endings",
			input:    "```toml\r\na = 1\r\n```\r\n",
			expected: "a = 1",
		},
		{
			name:     "no fence is unchanged",
			input:    "  {\"a\": 1}\n",
			expected: "  {\"a\": 1}\n",
		},
		{
			name:     "unclosed fence is unchanged",
			input:    "```json\n{\"a\":1}",
			expected: "```json\n{\"a\":1}",
		},
		{
			name:     "inline backticks around the whole input",
			input:    " `{\"a\":1}` ",
			expected: `{"a":1}`,
		},
		{
			name:     "inline code inside prose is unchanged",
			input:    "use `x` and `y`",
			expected: "use `x` and `y`",
		},
		{
			name:     "byte order mark removed",
			input:    "\uFEFF{\"a\":1}",
			expected: `{"a":1}`,
		},
		{
			name:     "empty block",
			input:    "```\n```",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.input))
		})
	}
}

func TestLang(t *testing.T) {
	assert.Equal(t, "json", Lang("```json\n{}\n```"))
	assert.Equal(t, "", Lang("```\n{}\n```"))
	assert.Equal(t, "", Lang("{}"))
}
