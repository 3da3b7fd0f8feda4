package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hirable/internal/db"
	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/fetch"
	"github.com/jonathan/hirable/internal/ingestion"
	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/llm/llmtest"
	"github.com/jonathan/hirable/internal/pipeline"
	"github.com/jonathan/hirable/internal/schemas"
	"github.com/jonathan/hirable/internal/server/ratelimit"
	"github.com/jonathan/hirable/internal/types"
)

type fakeRenderer struct {
	opts export.RenderCVOptions
	err  error
}

func (f *fakeRenderer) RenderPDF(_ context.Context, _ *types.Resume, opts export.RenderCVOptions) ([]byte, error) {
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeStore struct {
	runs      map[uuid.UUID]*db.RunDetail
	artifacts map[string][]byte
}

func (f *fakeStore) NewRecorder(context.Context, string, *slog.Logger) (*db.Recorder, error) {
	return nil, errors.New("recording disabled in tests")
}

func (f *fakeStore) GetRunDetail(_ context.Context, id uuid.UUID) (*db.RunDetail, error) {
	return f.runs[id], nil
}

func (f *fakeStore) ListRuns(_ context.Context, limit int) ([]db.Run, error) {
	var runs []db.Run
	for _, d := range f.runs {
		if len(runs) == limit {
			break
		}
		runs = append(runs, *d.Run)
	}
	return runs, nil
}

func (f *fakeStore) GetArtifact(_ context.Context, id uuid.UUID, step string) ([]byte, error) {
	return f.artifacts[id.String()+"/"+step], nil
}

func (f *fakeStore) DeleteRun(_ context.Context, id uuid.UUID) error {
	if _, ok := f.runs[id]; !ok {
		return db.ErrRunNotFound
	}
	delete(f.runs, id)
	return nil
}

type testServer struct {
	*Server
	client   *llmtest.Fake
	renderer *fakeRenderer
}

func newTestServer(t *testing.T, mutate ...func(*Config)) *testServer {
	t.Helper()
	client := llmtest.Acme()
	renderer := &fakeRenderer{}
	cfg := Config{
		Client:    client,
		Renderer:  renderer,
		RateLimit: &ratelimit.Config{Enabled: false},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return &testServer{Server: s, client: client, renderer: renderer}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func (ts *testServer) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return ts.do(req)
}

func janeResume(t *testing.T) *types.Resume {
	t.Helper()
	var r types.Resume
	require.NoError(t, json.Unmarshal([]byte(llmtest.JaneResumeJSON), &r))
	return &r
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	msg, _ := resp["error"].(string)
	return msg
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRun_AcmeScenario(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/run", RunRequest{JobText: llmtest.AcmeJobText, ResumeText: llmtest.JaneResumeText})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.State)
	require.NotNil(t, resp.Job)
	require.NotNil(t, resp.Resume)
	require.NotNil(t, resp.ResumeOut)
	require.NotNil(t, resp.CoverLetter)
	assert.Equal(t, "Acme", resp.CoverLetter.CompanyName)
	assert.Empty(t, resp.RunID)
	assert.Equal(t, 9, ts.client.Calls())
}

func TestRun_StructuredResume(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/run", RunRequest{JobText: llmtest.AcmeJobText, Resume: janeResume(t)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, ts.client.CallsMatching(llmtest.MarkIngestResume))
}

func TestRun_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"invalid json", `{not json`, "invalid JSON"},
		{"no job", `{"resume_text":"Jane Doe"}`, "job"},
		{"bad job url", `{"job_url":"ftp://example.com/job","resume_text":"Jane Doe"}`, "job_url"},
		{"no resume", `{"job_text":"Engineer at Acme"}`, "resume"},
		{"job url too long", `{"job_url":"https://example.com/` + strings.Repeat("a", 2100) + `","resume_text":"x"}`, "JobURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			req := httptest.NewRequest(http.MethodPost, "/api/run", strings.NewReader(tt.body))
			w := ts.do(req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, errorBody(t, w), tt.wantErr)
			assert.Equal(t, 0, ts.client.Calls())
		})
	}
}

func TestRun_ModelFailureIsBadGateway(t *testing.T) {
	ts := newTestServer(t)
	ts.client.Rules = append([]llmtest.Rule{{Match: llmtest.MarkIngestJob, Err: &llm.APICallError{Message: "quota exceeded"}}}, ts.client.Rules...)

	w := ts.postJSON(t, "/api/run", RunRequest{JobText: llmtest.AcmeJobText, ResumeText: llmtest.JaneResumeText})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, errorBody(t, w), "quota exceeded")
}

func TestRunStream(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/run/stream", RunRequest{JobText: llmtest.AcmeJobText, ResumeText: llmtest.JaneResumeText})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event: step\n")
	assert.Contains(t, body, `"step":"ingest_job"`)
	assert.Contains(t, body, `"status":"completed"`)
	assert.Contains(t, body, "event: complete\n")
	assert.Less(t, strings.Index(body, "event: step"), strings.Index(body, "event: complete"))
	assert.NotContains(t, body, "event: error")
}

func TestRunStream_InvalidInputIsPlainError(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/run/stream", RunRequest{ResumeText: "Jane"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestRunStream_FailureEvent(t *testing.T) {
	ts := newTestServer(t)
	ts.client.Rules = append([]llmtest.Rule{{Match: llmtest.MarkCoverLetter, Err: &llm.APICallError{Message: "boom"}}}, ts.client.Rules...)

	w := ts.postJSON(t, "/api/run/stream", RunRequest{JobText: llmtest.AcmeJobText, ResumeText: llmtest.JaneResumeText})

	body := w.Body.String()
	assert.Contains(t, body, "event: error\n")
	assert.Contains(t, body, `"status":502`)
	assert.NotContains(t, body, "event: complete")
}

func TestExportYAML(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/export/yaml", ExportRequest{Resume: janeResume(t)})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "resume.yaml")

	back, err := export.UnmarshalResume(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, janeResume(t), back)
}

func TestExportRenderCV(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/export/rendercv", ExportRequest{Resume: janeResume(t), Keywords: []string{"Python"}, Theme: "classic"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, "name: Jane Doe")
	assert.Contains(t, body, "theme: classic")
	assert.Contains(t, body, "bold_keywords:")
}

func TestExportPDF(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Theme = "engineeringresumes" })

	w := ts.postJSON(t, "/api/export/pdf", ExportRequest{Resume: janeResume(t), Keywords: []string{"Go", "Kubernetes"}})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	assert.Equal(t, []string{"Go", "Kubernetes"}, ts.renderer.opts.BoldKeywords)
	assert.Equal(t, "engineeringresumes", ts.renderer.opts.Theme)
}

func TestExportPDF_RenderFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.renderer.err = &export.RenderError{Renderer: export.RendererRenderCV, Message: "rendercv failed"}

	w := ts.postJSON(t, "/api/export/pdf", ExportRequest{Resume: janeResume(t)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, errorBody(t, w), "rendercv failed")
}

func TestExport_Invalid(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/export/yaml", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w), "Resume")

	w = ts.postJSON(t, "/api/export/yaml", ExportRequest{Resume: &types.Resume{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRun(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{runs: map[uuid.UUID]*db.RunDetail{
		id: {Run: &db.Run{ID: id, Company: "Acme", Status: db.RunStatusCompleted}},
	}}
	ts := newTestServer(t, func(c *Config) { c.Store = store })

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/runs/"+id.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	var detail db.RunDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Acme", detail.Run.Company)

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/runs/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/runs/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRuns(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{runs: map[uuid.UUID]*db.RunDetail{
		id: {Run: &db.Run{ID: id, Company: "Acme", Status: db.RunStatusCompleted}},
	}}
	ts := newTestServer(t, func(c *Config) { c.Store = store })

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/runs?limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Runs []db.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Runs, 1)
	assert.Equal(t, id, body.Runs[0].ID)

	for _, limit := range []string{"0", "abc", "1000"} {
		w = ts.do(httptest.NewRequest(http.MethodGet, "/api/runs?limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, limit)
	}
}

func TestListRuns_Empty(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Store = &fakeStore{} })

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"runs":[]}`, w.Body.String())
}

func TestGetArtifact(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{artifacts: map[string][]byte{
		id.String() + "/" + db.StepCoverLetter: []byte(`{"company_name":"Acme"}`),
	}}
	ts := newTestServer(t, func(c *Config) { c.Store = store })

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/runs/"+id.String()+"/artifacts/"+db.StepCoverLetter, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"company_name":"Acme"}`, w.Body.String())

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/runs/"+id.String()+"/artifacts/"+db.StepResumeOut, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRun(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{runs: map[uuid.UUID]*db.RunDetail{
		id: {Run: &db.Run{ID: id, Company: "Acme"}},
	}}
	ts := newTestServer(t, func(c *Config) { c.Store = store })

	w := ts.do(httptest.NewRequest(http.MethodDelete, "/api/runs/"+id.String(), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, store.runs)

	w = ts.do(httptest.NewRequest(http.MethodDelete, "/api/runs/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(httptest.NewRequest(http.MethodDelete, "/api/runs/nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRun_NotServedWithoutStore(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/runs/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_RecorderFailureDoesNotFailRun(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.Store = &fakeStore{} })

	w := ts.postJSON(t, "/api/run", RunRequest{JobText: llmtest.AcmeJobText, ResumeText: llmtest.JaneResumeText})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:         true,
			DefaultLimit:    100,
			DefaultWindow:   60_000_000_000,
			EndpointConfigs: ratelimit.DefaultEndpointConfigs(1),
		}
	})

	for i := 0; i < 3; i++ {
		w := ts.postJSON(t, "/api/run", map[string]string{})
		require.Equal(t, http.StatusBadRequest, w.Code, "request %d", i+1)
	}

	w := ts.postJSON(t, "/api/run", map[string]string{})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"input", &pipeline.InputError{Field: "job", Message: "missing"}, http.StatusBadRequest},
		{"validation", &ErrValidation{Field: "body", Message: "bad"}, http.StatusBadRequest},
		{"format", &ingestion.UnsupportedFormatError{Name: "a.png", Ext: "png"}, http.StatusBadRequest},
		{"fetch", &pipeline.StepError{Step: "ingest_job", Err: &fetch.Error{URL: "https://x", Message: "404"}}, http.StatusBadRequest},
		{"schema", &schemas.ValidationError{}, http.StatusBadRequest},
		{"api", &pipeline.StepError{Step: "adapt_resume", Err: &llm.APICallError{Message: "x"}}, http.StatusBadGateway},
		{"parse wrapping schema", &llm.ParseError{Message: "x", Cause: &schemas.ValidationError{}}, http.StatusBadGateway},
		{"render", &export.RenderError{Renderer: "chrome", Message: "x"}, http.StatusInternalServerError},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func multipartForm(t *testing.T, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/generate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `action="/generate"`)
	assert.Contains(t, w.Body.String(), `name="resume"`)
}

func TestGenerate_TextResume(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(multipartForm(t, map[string]string{"job_text": llmtest.AcmeJobText}, "resume.txt", llmtest.JaneResumeText))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, "Senior Backend Engineer at Acme")
	assert.Contains(t, body, "Cover letter")
	assert.Contains(t, body, "I build Python services on Kubernetes.")
	assert.Contains(t, body, `action="/download/pdf"`)
	assert.Contains(t, body, `name="keywords" value="Python"`)
	assert.Equal(t, 1, ts.client.CallsMatching(llmtest.MarkIngestResume))
}

func TestGenerate_YAMLResume(t *testing.T) {
	ts := newTestServer(t)
	data, err := export.MarshalResume(janeResume(t))
	require.NoError(t, err)

	w := ts.do(multipartForm(t, map[string]string{"job_text": llmtest.AcmeJobText}, "resume.yaml", string(data)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, ts.client.CallsMatching(llmtest.MarkIngestResume))
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		want     string
	}{
		{"unsupported format", map[string]string{"job_text": "Engineer"}, "resume.png", "unsupported file format"},
		{"missing file", map[string]string{"job_text": "Engineer"}, "", "a resume file is required"},
		{"missing job", map[string]string{}, "resume.txt", "either a job URL or job text is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			w := ts.do(multipartForm(t, tt.fields, tt.filename, "Jane Doe"))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `class="error"`)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Equal(t, 0, ts.client.Calls())
		})
	}
}

func postForm(values url.Values, path string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDownloadYAML(t *testing.T) {
	ts := newTestServer(t)
	data, err := export.MarshalResume(janeResume(t))
	require.NoError(t, err)

	w := ts.do(postForm(url.Values{"resume": {string(data)}}, "/download/yaml"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(data), w.Body.String())

	w = ts.do(postForm(url.Values{}, "/download/yaml"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadPDF(t *testing.T) {
	ts := newTestServer(t)
	data, err := export.MarshalResume(janeResume(t))
	require.NoError(t, err)

	w := ts.do(postForm(url.Values{"resume": {string(data)}, "keywords": {"Python", "Kubernetes"}}, "/download/pdf"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, []string{"Python", "Kubernetes"}, ts.renderer.opts.BoldKeywords)
}
