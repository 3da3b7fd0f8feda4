// Package pipeline provides the high-level orchestration of a run: ingest the job and
// the resume, adapt the resume to the job, then write the cover letter.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hirable/internal/adapting"
	"github.com/jonathan/hirable/internal/coverletter"
	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/parsing"
	"github.com/jonathan/hirable/internal/pipeline/steps"
	"github.com/jonathan/hirable/internal/schemas"
	"github.com/jonathan/hirable/internal/types"
)

// Progress statuses
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
// Calls are serialized even when steps run concurrently.
type ProgressCallback func(event ProgressEvent)

// JobFetcher turns a job posting URL into plain text.
type JobFetcher interface {
	FetchJob(ctx context.Context, url string) (string, error)
}

// Recorder persists a run as it executes. *db.Recorder implements it.
type Recorder interface {
	RunID() string
	StepStarted(ctx context.Context, step, category string)
	StepCompleted(ctx context.Context, step, category, artifact string, output any, d time.Duration) error
	StepFailed(ctx context.Context, step, category string, err error, d time.Duration)
	Finish(ctx context.Context, runErr error) error
}

// RunOptions holds the collaborators a run needs. Client is required; Fetcher is
// required only for runs that start from a job URL.
type RunOptions struct {
	Client     llm.Client
	Fetcher    JobFetcher
	Recorder   Recorder
	Logger     *slog.Logger
	OnProgress ProgressCallback
}

// Run validates the input, then executes the planned steps to completion.
// The first step error aborts the run; no partial state is returned.
func Run(ctx context.Context, input Input, opts RunOptions) (*State, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if opts.Client == nil {
		return nil, errors.New("pipeline: no model client configured")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if input.hasResumeText() && input.ResumeRecord != nil {
		logger.Warn("both resume text and a structured resume were given, using the resume text")
	}

	plan := steps.Plan(input)
	if err := steps.Validate(plan); err != nil {
		return nil, err
	}

	r := &runner{
		input:   input,
		opts:    opts,
		logger:  logger,
		adapter: adapting.New(opts.Client, logger),
		state:   &State{},
	}
	if opts.Recorder != nil {
		r.runID = opts.Recorder.RunID()
		r.logger = logger.With("run_id", r.runID)
	}

	err := r.execute(ctx, plan)
	if opts.Recorder != nil {
		if ferr := opts.Recorder.Finish(context.WithoutCancel(ctx), err); ferr != nil {
			r.logger.Warn("failed to record run outcome", "error", ferr)
		}
	}
	if err != nil {
		return nil, err
	}
	return r.state, nil
}

type runner struct {
	input   Input
	opts    RunOptions
	logger  *slog.Logger
	adapter *adapting.Adapter
	runID   string

	mu    sync.Mutex
	state *State

	progressMu sync.Mutex
}

// execute runs the plan in waves: every step whose dependencies are done runs
// concurrently, and the next wave starts once the whole wave has finished.
func (r *runner) execute(ctx context.Context, plan []steps.StepDefinition) error {
	done := make(map[string]bool, len(plan))
	pending := plan

	for len(pending) > 0 {
		ready := steps.Ready(pending, done)
		if len(ready) == 0 {
			return &steps.GraphError{Message: "no runnable step among the remaining steps"}
		}

		g, gCtx := errgroup.WithContext(ctx)
		for _, def := range ready {
			g.Go(func() error {
				return r.runStep(gCtx, def)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, def := range ready {
			done[def.Name] = true
		}
		pending = remaining(pending, done)
	}
	return nil
}

func remaining(plan []steps.StepDefinition, done map[string]bool) []steps.StepDefinition {
	var out []steps.StepDefinition
	for _, def := range plan {
		if !done[def.Name] {
			out = append(out, def)
		}
	}
	return out
}

func (r *runner) runStep(ctx context.Context, def steps.StepDefinition) error {
	// Bookkeeping outlives sibling cancellation so a failed run is still recorded.
	recordCtx := context.WithoutCancel(ctx)

	r.emitProgress(def, StatusStarted, "Running "+def.Name, nil)
	if r.opts.Recorder != nil {
		r.opts.Recorder.StepStarted(recordCtx, def.Name, def.Category)
	}
	r.logger.Debug("step started", "step", def.Name)

	start := time.Now()
	output, err := r.execStep(ctx, def.Name)
	elapsed := time.Since(start)

	if err != nil {
		stepErr := &StepError{Step: def.Name, Err: err}
		if r.opts.Recorder != nil {
			r.opts.Recorder.StepFailed(recordCtx, def.Name, def.Category, stepErr, elapsed)
		}
		r.logger.Debug("step failed", "step", def.Name, "duration", elapsed, "error", err)
		r.emitProgress(def, StatusFailed, err.Error(), nil)
		return stepErr
	}

	r.store(def.Name, output)
	if r.opts.Recorder != nil {
		if err := r.opts.Recorder.StepCompleted(recordCtx, def.Name, def.Category, def.Artifact, output, elapsed); err != nil {
			r.logger.Warn("failed to record step output", "step", def.Name, "error", err)
		}
	}
	r.logger.Debug("step completed", "step", def.Name, "duration", elapsed)
	r.emitProgress(def, StatusCompleted, completedMessage(def.Name, output), output)
	return nil
}

func (r *runner) execStep(ctx context.Context, name string) (any, error) {
	switch name {
	case steps.IngestJob:
		return r.ingestJob(ctx)
	case steps.IngestResume:
		return parsing.ParseResume(ctx, r.opts.Client, r.input.ResumeText)
	case steps.LoadResume:
		return r.loadResume()
	case steps.AdaptResume:
		snap := r.snapshot()
		return r.adapter.Adapt(ctx, snap.Resume, snap.Job)
	case steps.GenerateCoverLetter:
		snap := r.snapshot()
		return coverletter.Generate(ctx, r.opts.Client, snap.Job, snap.ResumeOut)
	}
	return nil, fmt.Errorf("no handler for step %s", name)
}

func (r *runner) ingestJob(ctx context.Context) (*types.JobPosting, error) {
	text := r.input.JobText
	if !r.input.hasJobText() {
		if r.opts.Fetcher == nil {
			return nil, errors.New("no job fetcher configured for a job URL")
		}
		fetched, err := r.opts.Fetcher.FetchJob(ctx, r.input.JobURL)
		if err != nil {
			return nil, err
		}
		text = fetched
	}
	return parsing.ParseJobPosting(ctx, r.opts.Client, text)
}

func (r *runner) loadResume() (*types.Resume, error) {
	if err := schemas.ValidateValue(schemas.Resume, r.input.ResumeRecord); err != nil {
		return nil, &InputError{Field: "resume", Message: "structured resume does not match the resume schema", Cause: err}
	}
	return r.input.ResumeRecord.Clone(), nil
}

func (r *runner) store(step string, output any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch step {
	case steps.IngestJob:
		r.state.Job = output.(*types.JobPosting)
	case steps.IngestResume, steps.LoadResume:
		r.state.Resume = output.(*types.Resume)
	case steps.AdaptResume:
		r.state.ResumeOut = output.(*types.Resume)
	case steps.GenerateCoverLetter:
		r.state.CoverLetter = output.(*types.CoverLetter)
	}
}

func (r *runner) snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.state
}

// emitProgress calls the progress callback if configured
func (r *runner) emitProgress(def steps.StepDefinition, status, message string, content any) {
	if r.opts.OnProgress == nil {
		return
	}
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.opts.OnProgress(ProgressEvent{
		Step:     def.Name,
		Category: def.Category,
		Status:   status,
		Message:  message,
		RunID:    r.runID,
		Content:  content,
	})
}

func completedMessage(step string, output any) string {
	switch v := output.(type) {
	case *types.JobPosting:
		return fmt.Sprintf("Parsed job posting: %s at %s (%d keywords)", v.Title, v.CompanyName, len(v.Keywords))
	case *types.CoverLetter:
		return fmt.Sprintf("Generated cover letter for %s", v.CompanyName)
	case *types.Resume:
		switch step {
		case steps.AdaptResume:
			return fmt.Sprintf("Adapted resume (%d experiences, skills: %s)", len(v.Experience), strings.Join(v.SkillNames(), ", "))
		case steps.LoadResume:
			return "Loaded structured resume for " + v.BasicInfo.Name
		}
		return "Parsed resume for " + v.BasicInfo.Name
	}
	return "Completed " + step
}
