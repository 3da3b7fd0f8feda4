package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirable/internal/config"
	"github.com/jonathan/hirable/internal/db"
	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/ingestion"
	"github.com/jonathan/hirable/internal/observability"
	"github.com/jonathan/hirable/internal/pipeline"
	"github.com/jonathan/hirable/internal/pipeline/steps"
)

// Output file names written by run.
const (
	resumeFile      = "resume.yaml"
	renderCVFile    = "rendercv.yaml"
	coverLetterFile = "cover_letter.md"
	pdfFile         = "resume.pdf"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Adapt a resume to a job posting and write a cover letter",
	Long: `Runs the whole pipeline: ingest the job posting and the resume, adapt every resume
section to the job, then write a cover letter.

The adapted resume and the cover letter are printed as Markdown. The adapted resume
(YAML and RenderCV YAML), the cover letter, and optionally a PDF are written to --out.`,
	RunE: runPipelineCmd,
}

var (
	runJob          string
	runJobURL       string
	runJobText      string
	runResume       string
	runOutDir       string
	runPDF          bool
	runRenderer     string
	runTheme        string
	runBoldKeywords bool
	runUseBrowser   bool
	runDatabaseURL  string
)

func init() {
	runCommand.Flags().StringVarP(&runJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	runCommand.Flags().StringVar(&runJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	runCommand.Flags().StringVar(&runJobText, "job-text", "", "Job posting text (takes precedence over --job and --job-url)")
	runCommand.Flags().StringVarP(&runResume, "resume", "r", "", "Resume file: pdf, docx, txt, md, or a structured .yaml record")
	runCommand.Flags().StringVarP(&runOutDir, "out", "o", "", "Output directory (default \"out\")")
	runCommand.Flags().BoolVar(&runPDF, "pdf", false, "Also render the adapted resume to PDF")
	runCommand.Flags().StringVar(&runRenderer, "renderer", "", "PDF renderer: rendercv or chrome (default rendercv)")
	runCommand.Flags().StringVar(&runTheme, "theme", "", "RenderCV theme (default sb2nov)")
	runCommand.Flags().BoolVar(&runBoldKeywords, "bold-keywords", false, "Bold the job keywords in the rendered resume")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL for run history (optional, defaults to DATABASE_URL env var)")
	addModelFlags(runCommand)

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &cfg)
	cfg = cfg.MergeWithDefaults(defaultConfig())
	if err := cfg.Validate(); err != nil {
		return err
	}

	input, err := buildRunInput(cfg, runJobText)
	if err != nil {
		return err
	}
	// Reject bad input before building a client or touching the database.
	if err := input.Validate(); err != nil {
		return err
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	logger := slog.Default()
	opts := pipeline.RunOptions{
		Client:     client,
		Fetcher:    ingestion.NewURLFetcher(cfg.UseBrowser, logger),
		Logger:     logger,
		OnProgress: progressPrinter(os.Stdout, len(steps.Plan(input)), cfg.Verbose),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		rec, err := database.NewRecorder(ctx, input.JobURL, logger)
		if err != nil {
			return err
		}
		opts.Recorder = rec
		fmt.Fprintf(os.Stdout, "Run ID: %s\n", rec.RunID())
	}

	state, err := pipeline.Run(ctx, input, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, state.ResumeOut.Markdown())
	fmt.Fprintln(os.Stdout, state.CoverLetter.Markdown())

	written, err := writeRunOutputs(cfg.OutDir, state, renderOptions(cfg, state))
	if err != nil {
		return err
	}
	if runPDF {
		path, err := writePDF(ctx, cfg, state)
		if err != nil {
			return err
		}
		written = append(written, path)
	}

	fmt.Fprintln(os.Stdout, "Wrote:")
	for _, path := range written {
		fmt.Fprintf(os.Stdout, "  %s\n", path)
	}
	return nil
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("job") {
		cfg.Job = runJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = runJobURL
	}
	if cmd.Flags().Changed("resume") {
		if ingestion.IsStructured(runResume) {
			cfg.ResumeYAML, cfg.Resume = runResume, ""
		} else {
			cfg.Resume, cfg.ResumeYAML = runResume, ""
		}
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = runOutDir
	}
	if cmd.Flags().Changed("renderer") {
		cfg.PDF.Renderer = runRenderer
	}
	if cmd.Flags().Changed("theme") {
		cfg.PDF.Theme = runTheme
	}
	if cmd.Flags().Changed("bold-keywords") {
		cfg.PDF.BoldKeywords = runBoldKeywords
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
}

// buildRunInput reads the job and resume files named in cfg. jobText, when set,
// replaces any job file or URL.
func buildRunInput(cfg config.Config, jobText string) (pipeline.Input, error) {
	input := pipeline.Input{JobURL: cfg.JobURL, JobText: jobText}
	if input.JobText == "" && cfg.Job != "" {
		text, err := readJobFile(cfg.Job)
		if err != nil {
			return input, err
		}
		input.JobText = text
	}

	for _, path := range []string{cfg.Resume, cfg.ResumeYAML} {
		if path == "" {
			continue
		}
		text, record, err := readResume(path)
		if err != nil {
			return input, err
		}
		if text != "" {
			input.ResumeText = text
		}
		if record != nil {
			input.ResumeRecord = record
		}
	}
	return input, nil
}

// progressPrinter prints a "Step N/M" line when a step starts and a check or cross
// when it ends. With detail set, completed outputs are boxed.
func progressPrinter(out io.Writer, total int, detail bool) pipeline.ProgressCallback {
	var (
		mu      sync.Mutex
		started int
	)
	printer := observability.NewPrinter(out)
	return func(event pipeline.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch event.Status {
		case pipeline.StatusStarted:
			started++
			fmt.Fprintf(out, "Step %d/%d: %s...\n", started, total, event.Step)
		case pipeline.StatusCompleted:
			fmt.Fprintf(out, "  ✓ %s\n", event.Message)
			if detail {
				printer.Print(event.Content)
			}
		case pipeline.StatusFailed:
			fmt.Fprintf(out, "  ✗ %s: %s\n", event.Step, event.Message)
		}
	}
}

func renderOptions(cfg config.Config, state *pipeline.State) export.RenderCVOptions {
	opts := export.RenderCVOptions{Theme: cfg.PDF.Theme}
	if cfg.PDF.BoldKeywords && state.Job != nil {
		opts.BoldKeywords = state.Job.Keywords
	}
	return opts
}

// writeRunOutputs writes the adapted resume, its RenderCV document, and the cover
// letter into outDir and returns the paths written.
func writeRunOutputs(outDir string, state *pipeline.State, opts export.RenderCVOptions) ([]string, error) {
	resumePath := filepath.Join(outDir, resumeFile)
	if err := export.SaveResume(resumePath, state.ResumeOut); err != nil {
		return nil, err
	}
	renderCVPath := filepath.Join(outDir, renderCVFile)
	if err := export.SaveRenderCV(renderCVPath, state.ResumeOut, opts); err != nil {
		return nil, err
	}
	letterPath := filepath.Join(outDir, coverLetterFile)
	if err := os.WriteFile(letterPath, []byte(state.CoverLetter.Markdown()), 0644); err != nil {
		return nil, fmt.Errorf("failed to write cover letter: %w", err)
	}
	return []string{resumePath, renderCVPath, letterPath}, nil
}

func writePDF(ctx context.Context, cfg config.Config, state *pipeline.State) (string, error) {
	renderer, err := export.NewRenderer(cfg.PDF.Renderer)
	if err != nil {
		return "", err
	}
	pdf, err := renderer.RenderPDF(ctx, state.ResumeOut, renderOptions(cfg, state))
	if err != nil {
		return "", err
	}
	path := filepath.Join(cfg.OutDir, pdfFile)
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}
	return path, nil
}
