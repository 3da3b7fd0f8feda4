package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/ingestion"
	"github.com/jonathan/hirable/internal/observability"
	"github.com/jonathan/hirable/internal/parsing"
)

var ingestResumeCmd = &cobra.Command{
	Use:   "ingest-resume <file>",
	Short: "Extract a resume's text, or parse it into a structured YAML record",
	Long: `Reads a resume document (pdf, docx, txt or md) and prints its cleaned text.

With --structured the text is parsed by the model into a resume record and printed
as YAML, ready for "run --resume resume.yaml" or "export".`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestResume,
}

var (
	ingestStructured bool
	ingestResumeOut  string
)

func init() {
	ingestResumeCmd.Flags().BoolVar(&ingestStructured, "structured", false, "Parse the resume into a YAML record")
	ingestResumeCmd.Flags().StringVarP(&ingestResumeOut, "out", "o", "", "Write the output to this file instead of stdout")
	addModelFlags(ingestResumeCmd)

	rootCmd.AddCommand(ingestResumeCmd)
}

func runIngestResume(cmd *cobra.Command, args []string) error {
	text, err := ingestion.ExtractFile(args[0])
	if err != nil {
		return err
	}

	if !ingestStructured {
		return writeOutput(ingestResumeOut, []byte(text+"\n"))
	}

	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg = cfg.MergeWithDefaults(defaultConfig())

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	resume, err := parsing.ParseResume(ctx, client, text)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintResume("PARSED RESUME", resume)
	}

	data, err := export.MarshalResume(resume)
	if err != nil {
		return err
	}
	return writeOutput(ingestResumeOut, data)
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
