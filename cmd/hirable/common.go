package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirable/internal/config"
	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/ingestion"
	"github.com/jonathan/hirable/internal/llm"
	"github.com/jonathan/hirable/internal/types"
)

// Flags shared by every command that calls the model.
var (
	flagProvider string
	flagAPIKey   string
)

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider: gemini or openai (default gemini)")
	cmd.Flags().StringVar(&flagAPIKey, "api-key", "", "API key (optional, defaults to GEMINI_API_KEY or OPENAI_API_KEY)")
}

// defaultConfig holds the values used when neither the config file nor a flag sets them.
func defaultConfig() config.Config {
	return config.Config{
		OutDir:      "out",
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LLM:         config.LLMConfig{Provider: string(llm.ProviderGemini)},
		PDF:         config.PDFConfig{Renderer: config.RendererRenderCV, Theme: export.DefaultTheme},
	}
}

// loadConfig reads --config when given and applies the flags every command shares.
// Commands apply their own flags on top, then merge defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cmd.Flags().Changed("provider") {
		cfg.LLM.Provider = flagProvider
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = flagAPIKey
	}

	setupLogging(cfg.Verbose)
	if configPath != "" {
		slog.Debug("loaded config", "path", configPath)
	}
	return cfg, nil
}

// newClient builds the model client for cfg.
func newClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	mc, err := cfg.ModelConfig()
	if err != nil {
		return nil, err
	}
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		env := config.EnvGeminiAPIKey
		if mc.Provider == llm.ProviderOpenAI {
			env = config.EnvOpenAIAPIKey
		}
		return nil, fmt.Errorf("%s environment variable or --api-key flag is required", env)
	}
	slog.Debug("model client", "provider", mc.Provider, "small", mc.GetModel(llm.TierSmall), "large", mc.GetModel(llm.TierLarge))
	return llm.NewClient(ctx, mc, apiKey)
}

// readJobFile reads and cleans a job posting text file.
func readJobFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job posting: %w", err)
	}
	return ingestion.CleanText(string(data)), nil
}

// readResume loads a resume file: YAML files are structured records, anything
// else is a document whose text is extracted.
func readResume(path string) (text string, record *types.Resume, err error) {
	if ingestion.IsStructured(path) {
		record, err = export.LoadResume(path)
		return "", record, err
	}
	text, err = ingestion.ExtractFile(path)
	return text, nil, err
}
