package pipeline

import (
	"fmt"

	"github.com/jonathan/hirable/internal/types"
)

// State holds the outputs of a run. ResumeOut is only set once Job and Resume
// are, and CoverLetter only once ResumeOut is.
type State struct {
	Job         *types.JobPosting  `json:"job,omitempty"`
	Resume      *types.Resume      `json:"resume,omitempty"`
	ResumeOut   *types.Resume      `json:"resume_out,omitempty"`
	CoverLetter *types.CoverLetter `json:"cover_letter,omitempty"`
}

// StepError wraps the error that aborted a run with the step it came from.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
