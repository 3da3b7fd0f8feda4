package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/hirable/internal/schemas"
)

// Call describes one schema-constrained model invocation.
type Call struct {
	Name   string // record name used in errors, e.g. "job_posting" or "experience"
	Tier   ModelTier
	System string // optional preamble shared by related calls
	Prompt string
	Schema string // JSON Schema document the response must satisfy
}

// BuildStructuredPrompt assembles the final prompt text for a structured call.
func BuildStructuredPrompt(call Call) string {
	var sb strings.Builder

	if call.System != "" {
		sb.WriteString(strings.TrimSpace(call.System))
		sb.WriteString("\n\n")
	}
	sb.WriteString(strings.TrimSpace(call.Prompt))
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY a JSON value that validates against this JSON Schema:\n")
	sb.WriteString(call.Schema)
	sb.WriteString("\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use the exact property names from the schema.\n")
	sb.WriteString("- Return ONLY the JSON, no markdown, no explanation, no code blocks.\n")

	return sb.String()
}

// Generate runs a structured call and decodes the validated response into T.
// Transport failures return *APICallError. Responses that are not JSON, or that
// fail the schema, return *ParseError (wrapping *schemas.ValidationError for the latter).
func Generate[T any](ctx context.Context, client Client, call Call) (*T, error) {
	raw, err := client.GenerateJSON(ctx, BuildStructuredPrompt(call), call.Tier)
	if err != nil {
		var apiErr *APICallError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, &APICallError{Message: fmt.Sprintf("%s request failed", call.Name), Cause: err}
	}

	cleaned := CleanJSONBlock(raw)
	if !json.Valid([]byte(cleaned)) {
		return nil, &ParseError{Message: fmt.Sprintf("%s response is not valid JSON", call.Name)}
	}

	if err := schemas.ValidateJSONString(call.Schema, cleaned); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("%s response does not match schema", call.Name), Cause: err}
	}

	var out T
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to decode %s", call.Name), Cause: err}
	}
	return &out, nil
}
