package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/fetch"
	"github.com/jonathan/hirable/internal/ingestion"
	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/pipeline"
	"github.com/jonathan/hirable/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Bad input and unreadable documents are the caller's fault; model failures are upstream.
func HTTPStatus(err error) int {
	var (
		inputErr      *pipeline.InputError
		validationErr *ErrValidation
		formatErr     *ingestion.UnsupportedFormatError
		extractErr    *ingestion.ExtractionError
		fetchErr      *fetch.Error
		schemaErr     *schemas.ValidationError
		exportErr     *export.Error
		apiErr        *llm.APICallError
		parseErr      *llm.ParseError
	)

	// A model response failing its schema is a ParseError wrapping a
	// schemas.ValidationError, so upstream errors are checked first.
	switch {
	case errors.As(err, &apiErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	case errors.As(err, &inputErr),
		errors.As(err, &validationErr),
		errors.As(err, &formatErr),
		errors.As(err, &extractErr),
		errors.As(err, &fetchErr),
		errors.As(err, &schemaErr),
		errors.As(err, &exportErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes {"error": msg}.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	s.errorResponse(w, status, err.Error())
}

// extractValidationErrors turns validator errors into one ErrValidation.
func extractValidationErrors(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed on " + fe.Tag()}
	}
	return &ErrValidation{Field: "request", Message: err.Error()}
}
