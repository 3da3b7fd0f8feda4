// Package coverletter writes a cover letter from a job posting and an adapted resume.
package coverletter

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/prompts"
	"github.com/jonathan/hirable/internal/schemas"
	"github.com/jonathan/hirable/internal/types"
)

// placeholderMarkers are template leftovers a finished letter must not contain.
var placeholderMarkers = []string{"[Company", "[Hiring", "[Your", "[Name", "[Position"}

// Generate produces a cover letter with a single large-tier model call.
func Generate(ctx context.Context, client llm.Client, job *types.JobPosting, resume *types.Resume) (*types.CoverLetter, error) {
	if job == nil || resume == nil {
		return nil, fmt.Errorf("cover letter: job posting and resume are required")
	}

	prompt, err := prompts.Render("cover_letter.json", "generate", map[string]string{
		"JobPosting": job.Markdown(),
		"Resume":     resume.Markdown(),
	})
	if err != nil {
		return nil, err
	}

	letter, err := llm.Generate[types.CoverLetter](ctx, client, llm.Call{
		Name:   schemas.CoverLetter,
		Tier:   llm.TierLarge,
		Prompt: prompt,
		Schema: schemas.MustGet(schemas.CoverLetter),
	})
	if err != nil {
		return nil, err
	}

	normalize(letter, job)
	if marker := findPlaceholder(letter); marker != "" {
		return nil, &llm.ParseError{Message: fmt.Sprintf("cover letter contains placeholder %q", marker)}
	}
	return letter, nil
}

func normalize(letter *types.CoverLetter, job *types.JobPosting) {
	letter.CompanyName = strings.TrimSpace(letter.CompanyName)
	letter.TeamName = strings.TrimSpace(letter.TeamName)
	letter.PositionTitle = strings.TrimSpace(letter.PositionTitle)
	letter.Salutation = strings.TrimSpace(letter.Salutation)
	letter.Body = strings.TrimSpace(letter.Body)
	letter.Closing = strings.TrimSpace(letter.Closing)

	if letter.CompanyName == "" {
		letter.CompanyName = job.CompanyName
	}
	if letter.PositionTitle == "" {
		letter.PositionTitle = job.Title
	}
}

func findPlaceholder(letter *types.CoverLetter) string {
	for _, field := range []string{letter.Salutation, letter.Body, letter.Closing} {
		for _, marker := range placeholderMarkers {
			if strings.Contains(field, marker) {
				return marker
			}
		}
	}
	return ""
}
