package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hirable/internal/config"
	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/pipeline"
	"github.com/jonathan/hirable/internal/types"
)

func sampleState() *pipeline.State {
	resume := &types.Resume{
		BasicInfo: types.BasicInfo{Name: "Jane Doe", Email: "jane@x.com"},
		Experience: []types.Experience{{
			Title:        "Software Engineer",
			Company:      "Initech",
			Start:        "2019",
			End:          "Present",
			Descriptions: []string{"Built Python APIs"},
		}},
	}
	return &pipeline.State{
		Job:       &types.JobPosting{Title: "Backend Engineer", CompanyName: "Acme", Keywords: []string{"Python"}},
		Resume:    resume,
		ResumeOut: resume,
		CoverLetter: &types.CoverLetter{
			CompanyName: "Acme",
			Salutation:  "Dear Hiring Manager,",
			Body:        "I build Python services.",
			Closing:     "Sincerely, Jane Doe",
		},
	}
}

func TestBuildRunInput_JobFileAndResumeText(t *testing.T) {
	dir := t.TempDir()
	jobPath := filepath.Join(dir, "job.txt")
	resumePath := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(jobPath, []byte("Backend Engineer at Acme\n\n\n\nPython"), 0644))
	require.NoError(t, os.WriteFile(resumePath, []byte("Jane Doe\nSoftware Engineer"), 0644))

	input, err := buildRunInput(config.Config{Job: jobPath, Resume: resumePath}, "")
	require.NoError(t, err)

	assert.Contains(t, input.JobText, "Backend Engineer at Acme")
	assert.Contains(t, input.ResumeText, "Jane Doe")
	assert.Nil(t, input.ResumeRecord)
	assert.NoError(t, input.Validate())
}

func TestBuildRunInput_JobTextWins(t *testing.T) {
	dir := t.TempDir()
	jobPath := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(jobPath, []byte("from file"), 0644))

	input, err := buildRunInput(config.Config{Job: jobPath}, "inline posting")
	require.NoError(t, err)
	assert.Equal(t, "inline posting", input.JobText)
}

func TestBuildRunInput_StructuredResume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.yaml")
	require.NoError(t, export.SaveResume(path, sampleState().ResumeOut))

	input, err := buildRunInput(config.Config{JobURL: "https://example.com/job", ResumeYAML: path}, "")
	require.NoError(t, err)

	require.NotNil(t, input.ResumeRecord)
	assert.Equal(t, "Jane Doe", input.ResumeRecord.BasicInfo.Name)
	assert.Empty(t, input.ResumeText)
	assert.Equal(t, "https://example.com/job", input.JobURL)
}

func TestBuildRunInput_MissingJobFile(t *testing.T) {
	_, err := buildRunInput(config.Config{Job: filepath.Join(t.TempDir(), "missing.txt")}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read job posting")
}

func TestProgressPrinter(t *testing.T) {
	var out bytes.Buffer
	onProgress := progressPrinter(&out, 4, false)

	onProgress(pipeline.ProgressEvent{Step: "ingest_job", Status: pipeline.StatusStarted})
	onProgress(pipeline.ProgressEvent{Step: "ingest_job", Status: pipeline.StatusCompleted, Message: "Parsed job posting"})
	onProgress(pipeline.ProgressEvent{Step: "ingest_resume", Status: pipeline.StatusStarted})
	onProgress(pipeline.ProgressEvent{Step: "ingest_resume", Status: pipeline.StatusFailed, Message: "boom"})

	got := out.String()
	assert.Contains(t, got, "Step 1/4: ingest_job...")
	assert.Contains(t, got, "  ✓ Parsed job posting")
	assert.Contains(t, got, "Step 2/4: ingest_resume...")
	assert.Contains(t, got, "  ✗ ingest_resume: boom")
}

func TestProgressPrinter_Detail(t *testing.T) {
	var out bytes.Buffer
	onProgress := progressPrinter(&out, 4, true)

	onProgress(pipeline.ProgressEvent{
		Step:    "ingest_job",
		Status:  pipeline.StatusCompleted,
		Message: "Parsed job posting",
		Content: sampleState().Job,
	})

	assert.Contains(t, out.String(), "Backend Engineer")
}

func TestRenderOptions(t *testing.T) {
	state := sampleState()

	opts := renderOptions(config.Config{PDF: config.PDFConfig{Theme: "classic"}}, state)
	assert.Equal(t, "classic", opts.Theme)
	assert.Empty(t, opts.BoldKeywords)

	opts = renderOptions(config.Config{PDF: config.PDFConfig{Theme: "classic", BoldKeywords: true}}, state)
	assert.Equal(t, []string{"Python"}, opts.BoldKeywords)
}

func TestWriteRunOutputs(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	state := sampleState()

	written, err := writeRunOutputs(outDir, state, export.RenderCVOptions{Theme: export.DefaultTheme})
	require.NoError(t, err)
	require.Len(t, written, 3)

	loaded, err := export.LoadResume(filepath.Join(outDir, resumeFile))
	require.NoError(t, err)
	assert.Equal(t, state.ResumeOut.BasicInfo.Name, loaded.BasicInfo.Name)

	renderCV, err := os.ReadFile(filepath.Join(outDir, renderCVFile))
	require.NoError(t, err)
	assert.Contains(t, string(renderCV), "Jane Doe")
	assert.Contains(t, string(renderCV), export.DefaultTheme)

	letter, err := os.ReadFile(filepath.Join(outDir, coverLetterFile))
	require.NoError(t, err)
	assert.Contains(t, string(letter), "I build Python services.")
}
