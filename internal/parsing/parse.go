// Package parsing turns extracted job posting and resume text into validated records
// with one schema-constrained model call each.
package parsing

import (
	"context"
	"strings"

	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/prompts"
	"github.com/jonathan/hirable/internal/schemas"
	"github.com/jonathan/hirable/internal/types"
)

// ParseJobPosting extracts a structured JobPosting from cleaned job posting text.
func ParseJobPosting(ctx context.Context, client llm.Client, text string) (*types.JobPosting, error) {
	call, err := ingestCall("job", schemas.JobPosting, text)
	if err != nil {
		return nil, err
	}

	job, err := llm.Generate[types.JobPosting](ctx, client, call)
	if err != nil {
		return nil, err
	}
	NormalizeJobPosting(job)
	return job, nil
}

// ParseResume extracts a structured Resume from resume text.
func ParseResume(ctx context.Context, client llm.Client, text string) (*types.Resume, error) {
	call, err := ingestCall("resume", schemas.Resume, text)
	if err != nil {
		return nil, err
	}

	resume, err := llm.Generate[types.Resume](ctx, client, call)
	if err != nil {
		return nil, err
	}
	NormalizeResume(resume)
	return resume, nil
}

func ingestCall(key, schemaName, text string) (llm.Call, error) {
	if strings.TrimSpace(text) == "" {
		return llm.Call{}, &ValidationError{Field: "text", Message: key + " text is empty"}
	}

	prompt, err := prompts.Render("ingest.json", key, map[string]string{"Text": text})
	if err != nil {
		return llm.Call{}, err
	}
	schema, err := schemas.Get(schemaName)
	if err != nil {
		return llm.Call{}, err
	}

	return llm.Call{
		Name:   schemaName,
		Tier:   llm.TierSmall,
		Prompt: prompt,
		Schema: schema,
	}, nil
}
