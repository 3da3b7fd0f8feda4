package pipeline

import (
	"fmt"
	"strings"

	"github.com/jonathan/hirable/internal/fetch"
	"github.com/jonathan/hirable/internal/types"
)

// Input is what a run starts from: a job (URL or text) and a resume
// (raw text or a structured record).
type Input struct {
	JobURL       string        `json:"job_url,omitempty"`
	JobText      string        `json:"job_text,omitempty"`
	ResumeText   string        `json:"resume_text,omitempty"`
	ResumeRecord *types.Resume `json:"resume,omitempty"`
}

// InputError reports a run rejected before any fetch or model call.
type InputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid input %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// Validate checks that a job and a resume were supplied. Job text takes
// precedence over a job URL, which is only checked when it will be fetched.
func (in Input) Validate() error {
	if !in.hasJobText() {
		if strings.TrimSpace(in.JobURL) == "" {
			return &InputError{Field: "job", Message: "either a job URL or job text is required"}
		}
		if err := fetch.ValidateURL(in.JobURL); err != nil {
			return &InputError{Field: "job_url", Message: "job URL is not a valid http(s) URL", Cause: err}
		}
	}
	if !in.hasResumeText() && in.ResumeRecord == nil {
		return &InputError{Field: "resume", Message: "either resume text or a structured resume is required"}
	}
	return nil
}

// HasResumeRecord reports whether the run loads the structured resume
// instead of parsing resume text. Resume text wins when both are set.
func (in Input) HasResumeRecord() bool {
	return in.ResumeRecord != nil && !in.hasResumeText()
}

func (in Input) hasJobText() bool {
	return strings.TrimSpace(in.JobText) != ""
}

func (in Input) hasResumeText() bool {
	return strings.TrimSpace(in.ResumeText) != ""
}
