// Package export writes resumes out as YAML records, RenderCV documents, and PDFs.
package export

import "fmt"

// Error represents a failure to encode, decode, or write an export.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// RenderError represents a PDF renderer failure. LogOutput holds whatever the
// external renderer printed.
type RenderError struct {
	Renderer  string
	Message   string
	LogOutput string
	Cause     error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s render error: %s: %v", e.Renderer, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s render error: %s", e.Renderer, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
