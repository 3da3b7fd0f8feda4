package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hirable/internal/types"
)

// runStore is the subset of DB a Recorder writes through.
type runStore interface {
	CreateRun(ctx context.Context, company, roleTitle, jobURL string) (uuid.UUID, error)
	SetRunJob(ctx context.Context, runID uuid.UUID, company, roleTitle string) error
	SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error
	RecordStep(ctx context.Context, runID uuid.UUID, input RunStepInput) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status, errorMsg string) error
}

// Recorder persists the progress and outputs of one pipeline run.
// Step bookkeeping failures are logged and never fail the run.
type Recorder struct {
	store  runStore
	runID  uuid.UUID
	logger *slog.Logger
}

// NewRecorder creates the run row and returns a Recorder bound to it.
func (db *DB) NewRecorder(ctx context.Context, jobURL string, logger *slog.Logger) (*Recorder, error) {
	return newRecorder(ctx, db, jobURL, logger)
}

func newRecorder(ctx context.Context, store runStore, jobURL string, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	id, err := store.CreateRun(ctx, "", "", jobURL)
	if err != nil {
		return nil, err
	}
	return &Recorder{store: store, runID: id, logger: logger.With("run_id", id.String())}, nil
}

// RunID returns the ID of the recorded run.
func (r *Recorder) RunID() string {
	return r.runID.String()
}

// StepStarted marks a step in progress.
func (r *Recorder) StepStarted(ctx context.Context, step, category string) {
	r.record(ctx, RunStepInput{Step: step, Category: category, Status: StepStatusInProgress})
}

// StepCompleted stores the step output as an artifact and marks the step completed.
func (r *Recorder) StepCompleted(ctx context.Context, step, category, artifact string, output any, d time.Duration) error {
	if artifact != "" && output != nil {
		if err := r.store.SaveArtifact(ctx, r.runID, artifact, category, output); err != nil {
			return err
		}
	}
	if job, ok := output.(*types.JobPosting); ok && job != nil {
		if err := r.store.SetRunJob(ctx, r.runID, job.CompanyName, job.Title); err != nil {
			r.logger.Warn("failed to record job on run", "error", err)
		}
	}
	r.record(ctx, RunStepInput{Step: step, Category: category, Status: StepStatusCompleted, Duration: d})
	return nil
}

// StepFailed marks a step failed with the error message.
func (r *Recorder) StepFailed(ctx context.Context, step, category string, stepErr error, d time.Duration) {
	r.record(ctx, RunStepInput{Step: step, Category: category, Status: StepStatusFailed, Duration: d, Error: stepErr.Error()})
}

// Finish marks the run completed, or failed when runErr is non-nil.
func (r *Recorder) Finish(ctx context.Context, runErr error) error {
	status, msg := RunStatusCompleted, ""
	if runErr != nil {
		status, msg = RunStatusFailed, runErr.Error()
	}
	return r.store.CompleteRun(ctx, r.runID, status, msg)
}

func (r *Recorder) record(ctx context.Context, input RunStepInput) {
	if err := r.store.RecordStep(ctx, r.runID, input); err != nil {
		r.logger.Warn("failed to record step", "step", input.Step, "status", input.Status, "error", err)
	}
}
