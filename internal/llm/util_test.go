package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"title\": \"Engineer\"}\n```",
			expected: `{"title": "Engineer"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"title\": \"Engineer\"}\n```",
			expected: `{"title": "Engineer"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"title\": \"Engineer\"}\n```",
			expected: `{"title": "Engineer"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"title": "Engineer"}`,
			expected: `{"title": "Engineer"}`,
		},
		{
			name:     "preamble before object",
			input:    "Here is the structured resume:\n{\"basic_info\": {\"name\": \"Jane\"}}",
			expected: `{"basic_info": {"name": "Jane"}}`,
		},
		{
			name:     "preamble before array",
			input:    "Skills:\n[\"Go\", \"Python\"]",
			expected: `["Go", "Python"]`,
		},
		{
			name:     "trailing chatter",
			input:    "{\"company_name\": \"Acme\"}\n\nLet me know if you need changes!",
			expected: `{"company_name": "Acme"}`,
		},
		{
			name:     "escaped quotes",
			input:    "Result: {\"body\": \"She said \\\"hello\\\"\"}",
			expected: `{"body": "She said \"hello\""}`,
		},
		{
			name:     "no JSON at all",
			input:    "I cannot help with that.",
			expected: "I cannot help with that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple object", `{"key": "value"}`, `{"key": "value"}`},
		{"nested objects", `{"outer": {"inner": "value"}}`, `{"outer": {"inner": "value"}}`},
		{"object with array", `{"items": [1, 2, 3]}`, `{"items": [1, 2, 3]}`},
		{"trailing text", `{"key": "value"} and more`, `{"key": "value"}`},
		{"braces inside string", `{"template": "Hello {name}!"}`, `{"template": "Hello {name}!"}`},
		{"unbalanced", `{"key": "value"`, ""},
		{"empty input", "", ""},
		{"not starting with brace", "not json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple array", `["a", "b"]`, `["a", "b"]`},
		{"nested arrays", `[[1, 2], [3, 4]]`, `[[1, 2], [3, 4]]`},
		{"array of objects", `[{"id": 1}, {"id": 2}]`, `[{"id": 1}, {"id": 2}]`},
		{"trailing text", `[1, 2, 3] extra`, `[1, 2, 3]`},
		{"empty input", "", ""},
		{"not starting with bracket", "nope", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONArray(tt.input))
		})
	}
}
