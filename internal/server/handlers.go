package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/hirable/internal/db"
	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/pipeline"
	"github.com/jonathan/hirable/internal/schemas"
	"github.com/jonathan/hirable/internal/types"
)

// RunRequest represents the request body for /api/run. Job text wins over a
// job URL and resume text wins over a structured resume.
type RunRequest struct {
	JobURL     string        `json:"job_url,omitempty" validate:"max=2048"`
	JobText    string        `json:"job_text,omitempty" validate:"max=200000"`
	ResumeText string        `json:"resume_text,omitempty" validate:"max=200000"`
	Resume     *types.Resume `json:"resume,omitempty"`
}

// RunResponse is the state of a finished run.
type RunResponse struct {
	RunID string `json:"run_id,omitempty"`
	*pipeline.State
}

// ExportRequest represents the request body for the /api/export endpoints
type ExportRequest struct {
	Resume   *types.Resume `json:"resume" validate:"required"`
	Keywords []string      `json:"keywords,omitempty" validate:"max=100,dive,max=200"`
	Theme    string        `json:"theme,omitempty" validate:"max=64"`
}

func (req RunRequest) input() pipeline.Input {
	return pipeline.Input{
		JobURL:       req.JobURL,
		JobText:      req.JobText,
		ResumeText:   req.ResumeText,
		ResumeRecord: req.Resume,
	}
}

// decodeJSON reads a size-limited JSON body into v and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(v); err != nil {
		return extractValidationErrors(err)
	}
	return nil
}

// runPipeline validates the input, attaches a recorder when a store is
// configured, and runs the pipeline.
func (s *Server) runPipeline(ctx context.Context, input pipeline.Input, onProgress pipeline.ProgressCallback) (*RunResponse, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	opts := pipeline.RunOptions{
		Client:     s.client,
		Fetcher:    s.fetcher,
		Logger:     s.logger,
		OnProgress: onProgress,
	}
	if s.store != nil {
		rec, err := s.store.NewRecorder(ctx, input.JobURL, s.logger)
		if err != nil {
			s.logger.Warn("run will not be recorded", "error", err)
		} else {
			opts.Recorder = rec
		}
	}

	state, err := pipeline.Run(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	resp := &RunResponse{State: state}
	if opts.Recorder != nil {
		resp.RunID = opts.Recorder.RunID()
	}
	return resp, nil
}

// handleRun runs the pipeline and returns the final state
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.runPipeline(r.Context(), req.input(), nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRunStream runs the pipeline and streams progress via SSE
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	input := req.input()
	if err := input.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := s.runPipeline(r.Context(), input, func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent(EventStep, event); err != nil {
			s.logger.Warn("failed to write SSE event", "error", err)
		}
	})
	if err != nil {
		sse.WriteError(err.Error(), HTTPStatus(err))
		return
	}
	sse.WriteComplete(*resp)
}

// decodeExport decodes an export request and checks the resume against its schema.
func (s *Server) decodeExport(w http.ResponseWriter, r *http.Request) (*ExportRequest, error) {
	var req ExportRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := schemas.ValidateValue(schemas.Resume, req.Resume); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Server) renderOptions(req *ExportRequest) export.RenderCVOptions {
	theme := req.Theme
	if theme == "" {
		theme = s.theme
	}
	return export.RenderCVOptions{Theme: theme, BoldKeywords: req.Keywords}
}

// handleExportYAML returns the resume as a YAML record
func (s *Server) handleExportYAML(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeExport(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := export.MarshalResume(req.Resume)
	if err != nil {
		s.writeError(w, err)
		return
	}
	attachment(w, "application/yaml", "resume.yaml", data)
}

// handleExportRenderCV returns the RenderCV input document for the resume
func (s *Server) handleExportRenderCV(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeExport(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := export.MarshalRenderCV(req.Resume, s.renderOptions(req))
	if err != nil {
		s.writeError(w, err)
		return
	}
	attachment(w, "application/yaml", "resume_CV.yaml", data)
}

// handleExportPDF renders the resume to PDF
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeExport(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pdf, err := s.renderer.RenderPDF(r.Context(), req.Resume, s.renderOptions(req))
	if err != nil {
		s.writeError(w, err)
		return
	}
	attachment(w, "application/pdf", "resume.pdf", pdf)
}

// maxRunsListed caps the limit query parameter of GET /api/runs.
const maxRunsListed = 200

// handleListRuns returns the most recent runs, newest first, without their steps.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRunsListed {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxRunsListed))
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

// parseRunID parses the {id} path value, writing a 400 when it is not a UUID.
func (s *Server) parseRunID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run ID format")
		return uuid.Nil, false
	}
	return id, true
}

// handleGetRun returns a recorded run with its steps and artifacts.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	detail, err := s.store.GetRunDetail(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}
	if detail == nil {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteRun(r.Context(), runID); err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			s.errorResponse(w, http.StatusNotFound, "run not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetArtifact returns one stored step output (job_posting, resume,
// resume_out or cover_letter) as raw JSON.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r)
	if !ok {
		return
	}
	content, err := s.store.GetArtifact(r.Context(), runID, r.PathValue("step"))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "database error: "+err.Error())
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "artifact not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(content) //nolint:errcheck
}

func attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}
