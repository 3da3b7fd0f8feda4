package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirable/internal/db"
	"github.com/jonathan/hirable/internal/export"
	"github.com/jonathan/hirable/internal/ingestion"
	"github.com/jonathan/hirable/internal/server"
)

var (
	servePort        int
	serveDatabaseURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and JSON API server",
	Long: `Start an HTTP server with an upload form at / and JSON endpoints under /api for
running the pipeline and exporting resumes. Runs are recorded when a database URL
is configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL for run history (optional, defaults to DATABASE_URL env var)")
	addModelFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	cfg = cfg.MergeWithDefaults(defaultConfig())
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	renderer, err := export.NewRenderer(cfg.PDF.Renderer)
	if err != nil {
		return err
	}

	logger := slog.Default()
	srvCfg := server.Config{
		Port:     servePort,
		Client:   client,
		Fetcher:  ingestion.NewURLFetcher(cfg.UseBrowser, logger),
		Renderer: renderer,
		Theme:    cfg.PDF.Theme,
		Logger:   logger,
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
		srvCfg.Store = database
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
