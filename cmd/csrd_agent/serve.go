package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marion/csrd-analyzer/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the REST API: POST /analyses runs an analysis, GET /analyses lists history, GET /analyses/{id} fetches one, GET /health reports status.",
	RunE:  runServeCmd,
}

var (
	servePort        int
	serveCorpusDir   string
	serveProvider    string
	serveModel       string
	serveAPIKey      string
	serveRegistryKey string
	serveDatabaseURL string
	serveTimeout     int
	serveConcurrent  bool
)

func init() {
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCommand.Flags().StringVarP(&serveCorpusDir, "corpus", "c", "data/csrd/general", "Directory of ESRS regulatory text files")
	serveCommand.Flags().StringVar(&serveProvider, "provider", "", "Completion provider: openai or gemini")
	serveCommand.Flags().StringVar(&serveModel, "model", "", "Model identifier (provider default if unset)")
	serveCommand.Flags().StringVar(&serveAPIKey, "api-key", "", "Completion-service API key (defaults to OPENAI_API_KEY or GEMINI_API_KEY env var)")
	serveCommand.Flags().StringVar(&serveRegistryKey, "registry-key", "", "Pappers registry API key (defaults to PAPPERS_API_KEY env var)")
	serveCommand.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCommand.Flags().IntVar(&serveTimeout, "timeout", 0, "Per-section completion timeout in seconds")
	serveCommand.Flags().BoolVar(&serveConcurrent, "concurrent", false, "Analyze sections in parallel")
	rootCmd.AddCommand(serveCommand)
}

func runServeCmd(_ *cobra.Command, _ []string) error {
	apiKey := serveAPIKey
	if apiKey == "" {
		if serveProvider == "gemini" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		} else if apiKey = os.Getenv("OPENAI_API_KEY"); apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if apiKey == "" {
		return fmt.Errorf("completion-service API key is required (--api-key, OPENAI_API_KEY or GEMINI_API_KEY)")
	}

	registryKey := serveRegistryKey
	if registryKey == "" {
		registryKey = os.Getenv("PAPPERS_API_KEY")
	}
	databaseURL := serveDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	srv, err := server.New(server.Config{
		Port:           servePort,
		CorpusDir:      serveCorpusDir,
		Provider:       serveProvider,
		Model:          serveModel,
		APIKey:         apiKey,
		RegistryAPIKey: registryKey,
		DatabaseURL:    databaseURL,
		SectionTimeout: time.Duration(serveTimeout) * time.Second,
		Concurrent:     serveConcurrent,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
