package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordStep upserts the status of one step of a run.
// Moving to in_progress stamps started_at; completed and failed stamp completed_at.
func (db *DB) RecordStep(ctx context.Context, runID uuid.UUID, input RunStepInput) error {
	var durationMs *int
	if input.Status != StepStatusInProgress {
		ms := int(input.Duration.Milliseconds())
		durationMs = &ms
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_steps (run_id, step, category, status, started_at, completed_at, duration_ms, error_message)
		 VALUES ($1, $2, $3, $4,
		         CASE WHEN $4 = 'in_progress' THEN NOW() END,
		         CASE WHEN $4 <> 'in_progress' THEN NOW() END,
		         $5, NULLIF($6, ''))
		 ON CONFLICT (run_id, step) DO UPDATE
		 SET status = EXCLUDED.status,
		     started_at = COALESCE(run_steps.started_at, EXCLUDED.started_at),
		     completed_at = EXCLUDED.completed_at,
		     duration_ms = EXCLUDED.duration_ms,
		     error_message = EXCLUDED.error_message,
		     updated_at = NOW()`,
		runID, input.Step, input.Category, input.Status, durationMs, input.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record step %s: %w", input.Step, err)
	}
	return nil
}

// ListRunSteps retrieves all steps for a run in the order they started
func (db *DB) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]RunStep, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, step, category, status, started_at, completed_at,
		        duration_ms, error_message, updated_at
		 FROM run_steps
		 WHERE run_id = $1
		 ORDER BY started_at NULLS LAST, step`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		var step RunStep
		if err := rows.Scan(&step.ID, &step.RunID, &step.Step, &step.Category, &step.Status,
			&step.StartedAt, &step.CompletedAt, &step.DurationMs, &step.ErrorMessage, &step.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}
