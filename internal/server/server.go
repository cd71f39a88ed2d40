// Package server provides the HTTP REST API for the CSRD report analyzer.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marion/csrd-analyzer/internal/analysis"
	"github.com/marion/csrd-analyzer/internal/consolidate"
	"github.com/marion/csrd-analyzer/internal/corpus"
	"github.com/marion/csrd-analyzer/internal/db"
	"github.com/marion/csrd-analyzer/internal/llm"
	"github.com/marion/csrd-analyzer/internal/registry"
	"github.com/marion/csrd-analyzer/internal/rubric"
	"github.com/marion/csrd-analyzer/internal/types"
)

// Config holds server configuration.
type Config struct {
	Port           int
	CorpusDir      string
	Provider       string
	Model          string
	APIKey         string
	RegistryAPIKey string
	DatabaseURL    string
	SectionTimeout time.Duration
	Concurrent     bool
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	db         *db.DB
	registry   *registry.Client
	corpus     *corpus.Corpus
	rubric     *rubric.Rubric

	// analyze is the orchestration entry point; injectable for tests.
	analyze func(ctx context.Context, reportText string, company types.CompanyContext) (*types.ConsolidatedAnalysis, error)
}

// New creates a new server instance. The completion-service API key is a
// startup requirement; a missing database degrades to no persistence with
// a warning, matching how the analysis pipeline treats storage.
func New(cfg Config) (*Server, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion-service API key is required")
	}

	llmConfig := llm.DefaultConfig()
	if cfg.Provider == string(llm.ProviderGemini) {
		llmConfig = llm.DefaultGeminiConfig()
	}
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(cfg.Model)
	}
	client, err := llm.NewClient(context.Background(), llmConfig, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	s := &Server{
		rubric: rubric.Default(),
	}

	// The corpus is read-only after load and shared across requests.
	var warnings []corpus.LoadWarning
	s.corpus, warnings = corpus.Load(cfg.CorpusDir)
	for _, warning := range warnings {
		log.Printf("Warning: %s", warning)
	}
	if s.corpus.Len() == 0 {
		log.Printf("Warning: no regulatory documents loaded from %s; analyses will run without regulatory context", cfg.CorpusDir)
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: failed to connect to database: %v", err)
			log.Printf("Continuing without history persistence...")
		} else if err := database.EnsureSchema(context.Background()); err != nil {
			log.Printf("Warning: failed to ensure schema: %v", err)
			database.Close()
		} else {
			s.db = database
		}
	}

	if cfg.RegistryAPIKey != "" {
		s.registry = registry.NewClient(cfg.RegistryAPIKey)
	}

	orchestrator := analysis.NewOrchestrator(client, s.rubric, &analysis.Options{
		SectionTimeout: cfg.SectionTimeout,
		Concurrent:     cfg.Concurrent,
	})
	s.analyze = func(ctx context.Context, reportText string, company types.CompanyContext) (*types.ConsolidatedAnalysis, error) {
		result, err := orchestrator.Analyze(ctx, reportText, company, s.corpus)
		if err != nil {
			return nil, err
		}
		return consolidate.Consolidate(result, s.rubric, company), nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyses", s.handleCreateAnalysis)
	mux.HandleFunc("GET /analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /analyses/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // analyses make several completion calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until interrupted.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
