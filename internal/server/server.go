// Package server provides the web form and the JSON API for tailoring a resume
// and cover letter to a job posting.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/hirable/internal/db"
	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/pipeline"
	"github.com/jonathan/hirable/internal/server/ratelimit"
)

// RunStore persists runs. *db.DB implements it.
type RunStore interface {
	NewRecorder(ctx context.Context, jobURL string, logger *slog.Logger) (*db.Recorder, error)
	GetRunDetail(ctx context.Context, runID uuid.UUID) (*db.RunDetail, error)
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error)
	DeleteRun(ctx context.Context, runID uuid.UUID) error
}

// Config holds server configuration
type Config struct {
	Port    int
	Client  llm.Client
	Fetcher pipeline.JobFetcher
	// Store is optional; without it runs are not recorded and /api/runs is not served.
	Store       RunStore
	Renderer    export.Renderer
	Theme       string
	RateLimit   *ratelimit.Config
	Logger      *slog.Logger
	MaxUploadMB int64
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	client      llm.Client
	fetcher     pipeline.JobFetcher
	store       RunStore
	renderer    export.Renderer
	theme       string
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	logger      *slog.Logger
	maxUpload   int64
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Client == nil {
		return nil, errors.New("server: a model client is required")
	}

	s := &Server{
		client:    cfg.Client,
		fetcher:   cfg.Fetcher,
		store:     cfg.Store,
		renderer:  cfg.Renderer,
		theme:     cfg.Theme,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    cfg.Logger,
		maxUpload: cfg.MaxUploadMB << 20,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.renderer == nil {
		s.renderer = &export.RenderCVRenderer{}
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 10 << 20
	}
	rlCfg := cfg.RateLimit
	if rlCfg == nil {
		rlCfg = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rlCfg)

	mux := http.NewServeMux()

	// Web form
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /download/yaml", s.handleDownloadYAML)
	mux.HandleFunc("POST /download/pdf", s.handleDownloadPDF)

	// JSON API
	mux.HandleFunc("POST /api/run", s.handleRun)
	mux.HandleFunc("POST /api/run/stream", s.handleRunStream)
	mux.HandleFunc("POST /api/export/yaml", s.handleExportYAML)
	mux.HandleFunc("POST /api/export/rendercv", s.handleExportRenderCV)
	mux.HandleFunc("POST /api/export/pdf", s.handleExportPDF)
	if s.store != nil {
		mux.HandleFunc("GET /api/runs", s.handleListRuns)
		mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
		mux.HandleFunc("DELETE /api/runs/{id}", s.handleDeleteRun)
		mux.HandleFunc("GET /api/runs/{id}/artifacts/{step}", s.handleGetArtifact)
	}
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for pipeline runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their limit with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr, "duration", time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error": "rate limit exceeded, please try again later",
		"limit": info.Limit,
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	s.logger.Warn("rate limit exceeded", "limit", info.Limit, "retry_after", info.RetryAfter)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
