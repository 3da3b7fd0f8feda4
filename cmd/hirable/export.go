package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/schemas"
)

// Export formats
const (
	formatRenderCV = "rendercv"
	formatPDF      = "pdf"
)

var exportCmd = &cobra.Command{
	Use:   "export <resume.yaml>",
	Short: "Convert a resume YAML record to RenderCV YAML or PDF",
	Long: `Loads a resume YAML record (as written by "run" or "ingest-resume --structured")
and writes it as a RenderCV input document or renders it to PDF.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportFormat   string
	exportOut      string
	exportTheme    string
	exportRenderer string
	exportKeywords []string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", formatRenderCV, "Output format: rendercv or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (rendercv defaults to stdout, pdf to resume.pdf)")
	exportCmd.Flags().StringVar(&exportTheme, "theme", "", "RenderCV theme (default sb2nov)")
	exportCmd.Flags().StringVar(&exportRenderer, "renderer", "", "PDF renderer: rendercv or chrome (default rendercv)")
	exportCmd.Flags().StringSliceVar(&exportKeywords, "keywords", nil, "Keywords to set in bold")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("theme") {
		cfg.PDF.Theme = exportTheme
	}
	if cmd.Flags().Changed("renderer") {
		cfg.PDF.Renderer = exportRenderer
	}
	cfg = cfg.MergeWithDefaults(defaultConfig())
	if err := cfg.Validate(); err != nil {
		return err
	}

	resume, err := export.LoadResume(args[0])
	if err != nil {
		return err
	}
	if err := schemas.ValidateValue(schemas.Resume, resume); err != nil {
		return fmt.Errorf("%s is not a valid resume record: %w", args[0], err)
	}
	opts := export.RenderCVOptions{Theme: cfg.PDF.Theme, BoldKeywords: exportKeywords}

	switch exportFormat {
	case formatRenderCV:
		data, err := export.MarshalRenderCV(resume, opts)
		if err != nil {
			return err
		}
		return writeOutput(exportOut, data)
	case formatPDF:
		renderer, err := export.NewRenderer(cfg.PDF.Renderer)
		if err != nil {
			return err
		}
		pdf, err := renderer.RenderPDF(cmd.Context(), resume, opts)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = "resume.pdf"
		}
		return writeOutput(out, pdf)
	}
	return fmt.Errorf("unknown export format %q (want %s or %s)", exportFormat, formatRenderCV, formatPDF)
}
