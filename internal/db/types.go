package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Run represents a pipeline run record
type Run struct {
	ID           uuid.UUID  `json:"id"`
	Company      string     `json:"company"`
	RoleTitle    string     `json:"role_title"`
	JobURL       string     `json:"job_url"`
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Artifact step names. Each pipeline step stores its output under one of these.
const (
	StepJobPosting  = "job_posting"
	StepResume      = "resume"
	StepResumeOut   = "resume_out"
	StepCoverLetter = "cover_letter"
)

// Step categories
const (
	CategoryIngestion  = "ingestion"
	CategoryAdaptation = "adaptation"
	CategoryGeneration = "generation"
)

// Artifact is a stored step output.
type Artifact struct {
	ID        uuid.UUID       `json:"id"`
	RunID     uuid.UUID       `json:"run_id"`
	Step      string          `json:"step"`
	Category  string          `json:"category"`
	Content   json.RawMessage `json:"content,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RunDetail bundles a run with its steps and artifacts.
type RunDetail struct {
	Run       *Run       `json:"run"`
	Steps     []RunStep  `json:"steps"`
	Artifacts []Artifact `json:"artifacts"`
}
