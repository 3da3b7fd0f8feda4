// Package config provides configuration file loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/hirable/internal/llm"
)

// PDF renderer names accepted in the pdf section.
const (
	RendererRenderCV = "rendercv"
	RendererChrome   = "chrome"
)

// API key environment variables, per provider.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Config represents the configuration file structure.
// All fields are optional and can be overridden by CLI flags.
// Files ending in .yaml or .yml are read as YAML, everything else as JSON.
type Config struct {
	// Inputs
	Job        string `json:"job,omitempty" yaml:"job,omitempty"`                 // Path to job posting text file
	JobURL     string `json:"job_url,omitempty" yaml:"job_url,omitempty"`         // URL to fetch job posting from
	Resume     string `json:"resume,omitempty" yaml:"resume,omitempty"`           // Path to resume document (pdf, docx, txt, md)
	ResumeYAML string `json:"resume_yaml,omitempty" yaml:"resume_yaml,omitempty"` // Path to a structured resume record

	// Output
	OutDir string `json:"out_dir,omitempty" yaml:"out_dir,omitempty"`

	// Behavior
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	UseBrowser  bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`

	LLM LLMConfig `json:"llm,omitempty" yaml:"llm,omitempty"`
	PDF PDFConfig `json:"pdf,omitempty" yaml:"pdf,omitempty"`
}

// LLMConfig selects the model provider and tunes the client.
type LLMConfig struct {
	Provider       string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Small          string   `json:"small,omitempty" yaml:"small,omitempty"`
	Large          string   `json:"large,omitempty" yaml:"large,omitempty"`
	Temperature    *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	RequestsPerSec *float64 `json:"requests_per_sec,omitempty" yaml:"requests_per_sec,omitempty"`
}

// PDFConfig controls PDF export.
type PDFConfig struct {
	Renderer     string `json:"renderer,omitempty" yaml:"renderer,omitempty"`
	Theme        string `json:"theme,omitempty" yaml:"theme,omitempty"`
	BoldKeywords bool   `json:"bold_keywords,omitempty" yaml:"bold_keywords,omitempty"`
}

// LoadConfig reads and parses a configuration file.
// Relative paths are resolved against the current working directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("job and job_url are mutually exclusive")
	}

	switch llm.Provider(c.LLM.Provider) {
	case "", llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", llm.ProviderGemini, llm.ProviderOpenAI, c.LLM.Provider)
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", *t)
	}
	if rps := c.LLM.RequestsPerSec; rps != nil && *rps < 0 {
		return fmt.Errorf("llm.requests_per_sec must be non-negative, got %v", *rps)
	}

	switch c.PDF.Renderer {
	case "", RendererRenderCV, RendererChrome:
	default:
		return fmt.Errorf("pdf.renderer must be %q or %q, got %q", RendererRenderCV, RendererChrome, c.PDF.Renderer)
	}

	for _, f := range []struct{ name, path string }{
		{"job", c.Job},
		{"resume", c.Resume},
		{"resume_yaml", c.ResumeYAML},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); os.IsNotExist(err) {
			return fmt.Errorf("%s file does not exist: %s", f.name, f.path)
		}
	}

	return nil
}

// MergeWithDefaults fills empty fields from defaults. Booleans are never overridden.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.ResumeYAML == "" {
		result.ResumeYAML = defaults.ResumeYAML
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.Small == "" {
		result.LLM.Small = defaults.LLM.Small
	}
	if result.LLM.Large == "" {
		result.LLM.Large = defaults.LLM.Large
	}
	if result.LLM.Temperature == nil {
		result.LLM.Temperature = defaults.LLM.Temperature
	}
	if result.LLM.RequestsPerSec == nil {
		result.LLM.RequestsPerSec = defaults.LLM.RequestsPerSec
	}

	if result.PDF.Renderer == "" {
		result.PDF.Renderer = defaults.PDF.Renderer
	}
	if result.PDF.Theme == "" {
		result.PDF.Theme = defaults.PDF.Theme
	}

	return result
}

// ModelConfig builds the client configuration: provider defaults with the
// configured overrides applied.
func (c *Config) ModelConfig() (*llm.Config, error) {
	mc := llm.ConfigFor(llm.Provider(c.LLM.Provider))
	if mc == nil {
		return nil, fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Small != "" {
		mc = mc.WithModel(llm.TierSmall, c.LLM.Small)
	}
	if c.LLM.Large != "" {
		mc = mc.WithModel(llm.TierLarge, c.LLM.Large)
	}
	if c.LLM.Temperature != nil {
		mc.Temperature = *c.LLM.Temperature
	}
	if c.LLM.RequestsPerSec != nil {
		mc.RequestsPerSecond = *c.LLM.RequestsPerSec
	}
	return mc, nil
}

// ResolveAPIKey returns the configured API key, falling back to the provider's
// environment variable.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if llm.Provider(c.LLM.Provider) == llm.ProviderOpenAI {
		return os.Getenv(EnvOpenAIAPIKey)
	}
	return os.Getenv(EnvGeminiAPIKey)
}
