package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marion/csrd-analyzer/internal/analysis"
	"github.com/marion/csrd-analyzer/internal/config"
	"github.com/marion/csrd-analyzer/internal/consolidate"
	"github.com/marion/csrd-analyzer/internal/corpus"
	"github.com/marion/csrd-analyzer/internal/db"
	"github.com/marion/csrd-analyzer/internal/ingestion"
	"github.com/marion/csrd-analyzer/internal/llm"
	"github.com/marion/csrd-analyzer/internal/observability"
	"github.com/marion/csrd-analyzer/internal/registry"
	"github.com/marion/csrd-analyzer/internal/rubric"
	"github.com/marion/csrd-analyzer/internal/types"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a sustainability report against the ESRS framework",
	Long: `Runs the full analysis: regulatory context lookup -> prompt -> completion service -> validation -> weighted consolidation.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeConfigPath  string
	analyzeReport      string
	analyzeCompany     string
	analyzeSIREN       string
	analyzeSector      string
	analyzeSize        string
	analyzeCorpusDir   string
	analyzeProvider    string
	analyzeModel       string
	analyzeAPIKey      string
	analyzeRegistryKey string
	analyzeDatabaseURL string
	analyzeTimeout     int
	analyzeConcurrent  bool
	analyzeVerbose     bool
	analyzeOut         string
)

func init() {
	// Config file flag (processed first)
	analyzeCommand.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	analyzeCommand.Flags().StringVarP(&analyzeReport, "report", "r", "", "Path to the extracted report text file")
	analyzeCommand.Flags().StringVarP(&analyzeCompany, "company", "n", "", "Company name")
	analyzeCommand.Flags().StringVar(&analyzeSIREN, "siren", "", "Company SIREN for registry enrichment and history (optional)")
	analyzeCommand.Flags().StringVar(&analyzeSector, "sector", "", "Company sector (optional)")
	analyzeCommand.Flags().StringVar(&analyzeSize, "size", "", "Company size (optional)")
	analyzeCommand.Flags().StringVarP(&analyzeCorpusDir, "corpus", "c", "data/csrd/general", "Directory of ESRS regulatory text files")
	analyzeCommand.Flags().StringVar(&analyzeProvider, "provider", "", "Completion provider: openai or gemini")
	analyzeCommand.Flags().StringVar(&analyzeModel, "model", "", "Model identifier (provider default if unset)")
	analyzeCommand.Flags().IntVar(&analyzeTimeout, "timeout", 0, "Per-section completion timeout in seconds")
	analyzeCommand.Flags().BoolVar(&analyzeConcurrent, "concurrent", false, "Analyze sections in parallel")
	analyzeCommand.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed output")
	analyzeCommand.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the consolidated analysis JSON to this path")

	// API keys can be passed as flags, or read from env vars
	analyzeCommand.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Completion-service API key (defaults to OPENAI_API_KEY or GEMINI_API_KEY env var)")
	analyzeCommand.Flags().StringVar(&analyzeRegistryKey, "registry-key", "", "Pappers registry API key (defaults to PAPPERS_API_KEY env var)")

	// Database URL for history persistence
	analyzeCommand.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(analyzeCommand)
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadAnalyzeConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Report == "" {
		return fmt.Errorf("--report is required")
	}
	if analyzeCompany == "" {
		return fmt.Errorf("--company is required")
	}

	apiKey := resolveAPIKey(cfg)
	if apiKey == "" {
		return fmt.Errorf("completion-service API key is required (--api-key, OPENAI_API_KEY or GEMINI_API_KEY)")
	}

	reportText, err := ingestion.LoadReportText(cfg.Report)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)

	// Load the regulatory corpus once; a missing directory degrades to an
	// empty corpus rather than failing the run.
	corp, warnings := corpus.Load(cfg.CorpusDir)
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	if analyzeVerbose {
		printer.PrintCorpusSummary(corp)
	}

	company := buildCompanyContext(ctx, cfg)

	llmConfig := llm.DefaultConfig()
	if cfg.Provider == "gemini" {
		llmConfig = llm.DefaultGeminiConfig()
	}
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmConfig, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}
	defer func() { _ = client.Close() }()

	scoring := rubric.Default()
	if err := scoring.Validate(); err != nil {
		return fmt.Errorf("invalid scoring rubric: %w", err)
	}

	options := &analysis.Options{
		SectionTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		Concurrent:     analyzeConcurrent || cfg.Concurrent,
	}
	if analyzeVerbose {
		options.OnProgress = func(event analysis.ProgressEvent) {
			fmt.Fprintf(os.Stdout, "[%s] %s\n", event.Section, event.Message)
		}
	}

	orchestrator := analysis.NewOrchestrator(client, scoring, options)
	result, err := orchestrator.Analyze(ctx, reportText, company, corp)
	if err != nil {
		return err
	}

	consolidated := consolidate.Consolidate(result, scoring, company)
	printer.PrintConsolidated(consolidated)

	if cfg.DatabaseURL != "" {
		persistAnalysis(ctx, cfg.DatabaseURL, company, consolidated)
	}

	if analyzeOut != "" {
		data, err := json.MarshalIndent(consolidated, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal analysis: %w", err)
		}
		if err := os.WriteFile(analyzeOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write analysis to %s: %w", analyzeOut, err)
		}
		fmt.Fprintf(os.Stdout, "Analysis written to %s\n", analyzeOut)
	}

	return nil
}

// loadAnalyzeConfig resolves the effective configuration: explicitly-set
// flags win, the config file fills the gaps, then flag defaults and env
// vars fill the rest.
func loadAnalyzeConfig(cmd *cobra.Command) (config.Config, error) {
	var fileCfg config.Config
	if analyzeConfigPath != "" {
		loadedCfg, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return config.Config{}, err
		}
		fileCfg = *loadedCfg
		if analyzeVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", analyzeConfigPath)
		}
	}

	var flagCfg config.Config
	if cmd.Flags().Changed("report") {
		flagCfg.Report = analyzeReport
	}
	if cmd.Flags().Changed("corpus") {
		flagCfg.CorpusDir = analyzeCorpusDir
	}
	if cmd.Flags().Changed("provider") {
		flagCfg.Provider = analyzeProvider
	}
	if cmd.Flags().Changed("model") {
		flagCfg.Model = analyzeModel
	}
	if cmd.Flags().Changed("api-key") {
		flagCfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("registry-key") {
		flagCfg.RegistryAPIKey = analyzeRegistryKey
	}
	if cmd.Flags().Changed("db-url") {
		flagCfg.DatabaseURL = analyzeDatabaseURL
	}
	if cmd.Flags().Changed("timeout") {
		flagCfg.TimeoutSeconds = analyzeTimeout
	}

	cfg := flagCfg.MergeWithDefaults(fileCfg)
	cfg = cfg.MergeWithDefaults(config.Config{
		CorpusDir:      analyzeCorpusDir,
		RegistryAPIKey: os.Getenv("PAPPERS_API_KEY"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	})
	// Bools are never merged; the config file value carries through and the
	// CLI flag wins at the call site.
	cfg.Concurrent = fileCfg.Concurrent
	cfg.Verbose = fileCfg.Verbose

	return cfg, cfg.Validate()
}

// resolveAPIKey prefers the explicit key, then provider-specific env vars.
func resolveAPIKey(cfg config.Config) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	if cfg.Provider == "gemini" {
		return os.Getenv("GEMINI_API_KEY")
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}

// buildCompanyContext assembles the company metadata, enriched from the
// registry when a SIREN and API key are available. Enrichment failure
// degrades to the user-provided values.
func buildCompanyContext(ctx context.Context, cfg config.Config) types.CompanyContext {
	company := types.NewCompanyContext(analyzeCompany)
	company.SIREN = analyzeSIREN
	if analyzeSector != "" {
		company.Sector = analyzeSector
	}
	if analyzeSize != "" {
		company.Size = analyzeSize
	}

	if cfg.RegistryAPIKey != "" && company.SIREN != "" {
		client := registry.NewClient(cfg.RegistryAPIKey)
		if err := client.Enrich(ctx, &company); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: registry enrichment failed: %v\n", err)
		}
	}

	return company
}

// persistAnalysis saves the run to the history store. Failure is a
// warning; the analysis result has already been produced.
func persistAnalysis(ctx context.Context, databaseURL string, company types.CompanyContext, consolidated *types.ConsolidatedAnalysis) {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to connect to database: %v\n", err)
		fmt.Fprintf(os.Stderr, "Continuing without history persistence...\n")
		return
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to ensure schema: %v\n", err)
		return
	}
	if err := database.UpsertCompany(ctx, company, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist company: %v\n", err)
	}
	id, err := database.SaveAnalysis(ctx, consolidated)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist analysis: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stdout, "Analysis saved with ID %s\n", id)
}
