package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirable/internal/fetch"
	"github.com/jonathan/hirable/internal/ingestion"
	"github.com/jonathan/hirable/internal/observability"
	"github.com/jonathan/hirable/internal/parsing"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Parse a job posting from a text file or URL into JSON",
	Long: `Ingest a job posting from either a text file or URL, clean the content, and parse it
into a structured job posting printed as JSON.

With --out, the cleaned text, its metadata, and the parsed JSON are also written there.`,
	RunE: runIngestJob,
}

var (
	ingestTextFile   string
	ingestURL        string
	ingestOutDir     string
	ingestUseBrowser bool
)

func init() {
	ingestJobCmd.Flags().StringVarP(&ingestTextFile, "text-file", "t", "", "Path to text file containing job posting")
	ingestJobCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch job posting from")
	ingestJobCmd.Flags().StringVarP(&ingestOutDir, "out", "o", "", "Output directory (optional)")
	ingestJobCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	addModelFlags(ingestJobCmd)

	rootCmd.AddCommand(ingestJobCmd)
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	if ingestTextFile == "" && ingestURL == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}
	if ingestTextFile != "" && ingestURL != "" {
		return fmt.Errorf("--text-file and --url are mutually exclusive; provide only one")
	}
	if ingestURL != "" {
		if err := fetch.ValidateURL(ingestURL); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = ingestUseBrowser
	}
	cfg = cfg.MergeWithDefaults(defaultConfig())

	var (
		text     string
		metadata *ingestion.Metadata
	)
	if ingestTextFile != "" {
		text, err = readJobFile(ingestTextFile)
		if err != nil {
			return err
		}
		metadata = ingestion.NewMetadata(text, "")
	} else {
		text, metadata, err = ingestion.NewURLFetcher(cfg.UseBrowser, slog.Default()).Fetch(ctx, ingestURL)
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	job, err := parsing.ParseJobPosting(ctx, client, text)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintJobPosting(job)
	}

	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode job posting: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))

	if ingestOutDir == "" {
		return nil
	}
	if err := ingestion.WriteOutput(ingestOutDir, text, metadata); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	jsonPath := filepath.Join(ingestOutDir, "job_posting.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write job posting JSON: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", jsonPath)
	return nil
}
