package server

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/ingestion"
	"github.com/jonathan/hirable/internal/pipeline"
	"github.com/jonathan/hirable/internal/schemas"
	"github.com/jonathan/hirable/internal/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

type indexPage struct {
	Error   string
	JobURL  string
	JobText string
}

type resultPage struct {
	Job                 *types.JobPosting
	ResumeMarkdown      string
	CoverLetterMarkdown string
	ResumeYAML          string
	ResumeOutYAML       string
	Keywords            []string
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck
}

// handleIndex renders the input form
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "index.html.tmpl", indexPage{})
}

// handleGenerate runs the pipeline from the form and renders the result as Markdown
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.render(w, http.StatusBadRequest, "index.html.tmpl", indexPage{Error: "could not read the form: " + err.Error()})
		return
	}

	page := indexPage{
		JobURL:  strings.TrimSpace(r.FormValue("job_url")),
		JobText: r.FormValue("job_text"),
	}
	input := pipeline.Input{JobURL: page.JobURL, JobText: page.JobText}

	if err := readResumeUpload(r, &input); err != nil {
		page.Error = err.Error()
		s.render(w, HTTPStatus(err), "index.html.tmpl", page)
		return
	}

	resp, err := s.runPipeline(r.Context(), input, nil)
	if err != nil {
		page.Error = err.Error()
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("run failed", "error", err)
		}
		s.render(w, status, "index.html.tmpl", page)
		return
	}

	result, err := newResultPage(resp.State)
	if err != nil {
		page.Error = err.Error()
		s.render(w, http.StatusInternalServerError, "index.html.tmpl", page)
		return
	}
	s.render(w, http.StatusOK, "result.html.tmpl", result)
}

// readResumeUpload reads the uploaded resume into the input: YAML files become
// a structured record, documents become text.
func readResumeUpload(r *http.Request, input *pipeline.Input) error {
	file, header, err := r.FormFile("resume")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return &pipeline.InputError{Field: "resume", Message: "a resume file is required"}
		}
		return &ErrValidation{Field: "resume", Message: err.Error()}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return &ErrValidation{Field: "resume", Message: err.Error()}
	}

	if ingestion.IsStructured(header.Filename) {
		record, err := export.UnmarshalResume(data)
		if err != nil {
			return err
		}
		input.ResumeRecord = record
		return nil
	}

	text, err := ingestion.ExtractBytes(header.Filename, data)
	if err != nil {
		return err
	}
	input.ResumeText = text
	return nil
}

func newResultPage(state *pipeline.State) (*resultPage, error) {
	source, err := export.MarshalResume(state.Resume)
	if err != nil {
		return nil, err
	}
	adapted, err := export.MarshalResume(state.ResumeOut)
	if err != nil {
		return nil, err
	}
	return &resultPage{
		Job:                 state.Job,
		ResumeMarkdown:      state.ResumeOut.Markdown(),
		CoverLetterMarkdown: state.CoverLetter.Markdown(),
		ResumeYAML:          string(source),
		ResumeOutYAML:       string(adapted),
		Keywords:            state.Job.Keywords,
	}, nil
}

// formResume decodes and schema-checks the YAML resume posted by a download form.
func formResume(r *http.Request) (*types.Resume, error) {
	data := r.PostFormValue("resume")
	if strings.TrimSpace(data) == "" {
		return nil, &ErrValidation{Field: "resume", Message: "required"}
	}
	record, err := export.UnmarshalResume([]byte(data))
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateValue(schemas.Resume, record); err != nil {
		return nil, err
	}
	return record, nil
}

// handleDownloadYAML returns the posted resume as a YAML file
func (s *Server) handleDownloadYAML(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	record, err := formResume(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := export.MarshalResume(record)
	if err != nil {
		s.writeError(w, err)
		return
	}
	attachment(w, "application/yaml", "resume.yaml", data)
}

// handleDownloadPDF renders the posted resume to PDF, bolding the posted keywords
func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	record, err := formResume(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts := export.RenderCVOptions{Theme: s.theme, BoldKeywords: r.PostForm["keywords"]}
	pdf, err := s.renderer.RenderPDF(r.Context(), record, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	attachment(w, "application/pdf", "resume.pdf", pdf)
}
