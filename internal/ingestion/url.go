package ingestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonathan/hirable/internal/fetch"
)

// URLFetcher turns a job posting URL into cleaned text.
type URLFetcher struct {
	// UseBrowser enables the headless Chrome fallback for pages whose
	// static HTML carries too little text.
	UseBrowser     bool
	BrowserTimeout time.Duration
	Options        *fetch.Options
	Logger         *slog.Logger
}

// NewURLFetcher returns a fetcher with default HTTP options.
func NewURLFetcher(useBrowser bool, logger *slog.Logger) *URLFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &URLFetcher{
		UseBrowser:     useBrowser,
		BrowserTimeout: 45 * time.Second,
		Options:        fetch.DefaultOptions(),
		Logger:         logger,
	}
}

// FetchJob fetches a job posting and returns its cleaned text.
func (f *URLFetcher) FetchJob(ctx context.Context, urlStr string) (string, error) {
	text, _, err := f.Fetch(ctx, urlStr)
	return text, err
}

// Fetch fetches a job posting page, extracts its main text with platform-specific
// selectors, and falls back to browser rendering when enabled and needed.
func (f *URLFetcher) Fetch(ctx context.Context, urlStr string) (string, *Metadata, error) {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}

	platform := fetch.DetectPlatform(urlStr)
	logger.Debug("fetching job posting", "url", urlStr, "platform", platform)

	result, err := fetch.URL(ctx, urlStr, f.Options)
	if err != nil {
		return "", nil, err
	}
	logger.Debug("fetched html", "bytes", len(result.HTML))

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	html := result.HTML
	text, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, &fetch.Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	usedBrowser := false
	if f.UseBrowser && (fetch.ShouldUseBrowser(text) || fetch.RequiresBrowser(platform)) {
		logger.Info("falling back to browser rendering", "url", urlStr, "chars", len(text))

		timeout := f.BrowserTimeout
		if timeout == 0 {
			timeout = 45 * time.Second
		}
		rendered, browserErr := fetch.WithBrowser(ctx, urlStr, timeout)
		if browserErr != nil {
			logger.Warn("browser rendering failed, using HTTP content", "error", browserErr)
		} else if browserText, extractErr := fetch.ExtractMainText(rendered, contentSelectors, noiseSelectors...); extractErr == nil {
			html, text, usedBrowser = rendered, browserText, true
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, &fetch.Error{URL: urlStr, Message: "page contains no readable text"}
	}

	metadata := NewMetadata(cleaned, urlStr)
	metadata.Platform = string(platform)
	metadata.Title = fetch.PageTitle(html)
	metadata.Browser = usedBrowser
	logger.Debug("extracted job text", "chars", len(cleaned), "browser", usedBrowser)

	return cleaned, metadata, nil
}
