//go:build integration

package db

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hirable/internal/types"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.EnsureSchema(ctx))
	t.Cleanup(db.Close)
	return db
}

func TestRunLifecycle_Integration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rec, err := db.NewRecorder(ctx, "https://example.com/jobs/1", nil)
	require.NoError(t, err)

	job := &types.JobPosting{Title: "Senior Backend Engineer", CompanyName: "Acme", Keywords: []string{"Python"}}
	rec.StepStarted(ctx, "ingest_job", CategoryIngestion)
	require.NoError(t, rec.StepCompleted(ctx, "ingest_job", CategoryIngestion, StepJobPosting, job, 1500*time.Millisecond))
	require.NoError(t, rec.Finish(ctx, nil))

	detail, err := db.GetRunDetail(ctx, rec.runID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	t.Cleanup(func() { _ = db.DeleteRun(context.Background(), rec.runID) })

	assert.Equal(t, "Acme", detail.Run.Company)
	assert.Equal(t, "Senior Backend Engineer", detail.Run.RoleTitle)
	assert.Equal(t, RunStatusCompleted, detail.Run.Status)
	assert.NotNil(t, detail.Run.CompletedAt)

	require.Len(t, detail.Steps, 1)
	assert.Equal(t, StepStatusCompleted, detail.Steps[0].Status)
	require.NotNil(t, detail.Steps[0].DurationMs)
	assert.Equal(t, 1500, *detail.Steps[0].DurationMs)
	assert.NotNil(t, detail.Steps[0].StartedAt)

	require.Len(t, detail.Artifacts, 1)
	var stored types.JobPosting
	require.NoError(t, json.Unmarshal(detail.Artifacts[0].Content, &stored))
	assert.Equal(t, *job, stored)
}

func TestGetRun_NotFound_Integration(t *testing.T) {
	db := setupTestDB(t)

	run, err := db.GetRun(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestDeleteRun_Integration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, "Acme", "Engineer", "")
	require.NoError(t, err)
	require.NoError(t, db.SaveArtifact(ctx, runID, StepJobPosting, CategoryIngestion, &types.JobPosting{CompanyName: "Acme"}))

	require.NoError(t, db.DeleteRun(ctx, runID))
	content, err := db.GetArtifact(ctx, runID, StepJobPosting)
	require.NoError(t, err)
	assert.Nil(t, content)

	assert.ErrorIs(t, db.DeleteRun(ctx, runID), ErrRunNotFound)
}

func TestEnsureSchema_Idempotent_Integration(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.EnsureSchema(context.Background()))
}
