package coverletter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/llm/llmtest"
	"github.com/jonathan/hirable/internal/types"
)

func fixtures(t *testing.T) (*types.JobPosting, *types.Resume) {
	t.Helper()
	var job types.JobPosting
	require.NoError(t, json.Unmarshal([]byte(llmtest.AcmeJobJSON), &job))
	var resume types.Resume
	require.NoError(t, json.Unmarshal([]byte(llmtest.JaneResumeJSON), &resume))
	return &job, &resume
}

func TestGenerate(t *testing.T) {
	job, resume := fixtures(t)
	client := llmtest.Acme()

	letter, err := Generate(context.Background(), client, job, resume)
	require.NoError(t, err)

	assert.Equal(t, "Acme", letter.CompanyName)
	assert.Equal(t, "Senior Backend Engineer", letter.PositionTitle)
	assert.Equal(t, "Dear Hiring Manager,", letter.Salutation)

	require.Equal(t, 1, client.Calls())
	req := client.Requests()[0]
	assert.Equal(t, llm.TierLarge, req.Tier)
	assert.Contains(t, req.Prompt, "- Name: Jane Doe", "resume markdown is in the prompt")
	assert.Contains(t, req.Prompt, "# Senior Backend Engineer at Acme", "job markdown is in the prompt")
}

func TestGenerate_RejectsPlaceholders(t *testing.T) {
	job, resume := fixtures(t)
	client := (&llmtest.Fake{}).On(llmtest.MarkCoverLetter,
		`{"company_name":"Acme","team_name":"","position_title":"Engineer","salutation":"Dear [Hiring Manager],","body":"Hi","closing":"Best"}`)

	_, err := Generate(context.Background(), client, job, resume)

	var parseErr *llm.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "placeholder")
}

func TestGenerate_SchemaMismatch(t *testing.T) {
	job, resume := fixtures(t)
	client := (&llmtest.Fake{}).On(llmtest.MarkCoverLetter, `{"company_name":"Acme"}`)

	_, err := Generate(context.Background(), client, job, resume)

	var parseErr *llm.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGenerate_RequiresInputs(t *testing.T) {
	client := llmtest.Acme()
	_, err := Generate(context.Background(), client, nil, &types.Resume{})
	assert.Error(t, err)
	assert.Equal(t, 0, client.Calls())
}
