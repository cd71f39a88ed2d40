package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/marion/csrd-analyzer/internal/analysis"
	"github.com/marion/csrd-analyzer/internal/types"
)

// AnalyzeRequest represents the request body for POST /analyses.
// The report text arrives pre-extracted; PDF handling is a client concern.
type AnalyzeRequest struct {
	ReportText string               `json:"report_text" validate:"required,min=1"`
	Company    types.CompanyContext `json:"company" validate:"required"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// AnalyzeResponse represents the response for POST /analyses.
type AnalyzeResponse struct {
	ID       string                      `json:"id,omitempty"`
	Analysis *types.ConsolidatedAnalysis `json:"analysis"`
}

// handleCreateAnalysis runs one full analysis synchronously and returns the
// consolidated record. The result is persisted when a database is
// configured; persistence failure is logged, not surfaced.
func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Company.Sector == "" {
		req.Company.Sector = types.UnspecifiedValue
	}
	if req.Company.Size == "" {
		req.Company.Size = types.UnspecifiedValue
	}

	// Best-effort enrichment from the company registry.
	if s.registry != nil && req.Company.SIREN != "" {
		if err := s.registry.Enrich(r.Context(), &req.Company); err != nil {
			log.Printf("Warning: registry enrichment failed: %v", err)
		}
	}

	consolidated, err := s.analyze(r.Context(), req.ReportText, req.Company)
	if err != nil {
		var inputErr *analysis.InputValidationError
		if errors.As(err, &inputErr) {
			s.errorResponse(w, http.StatusBadRequest, inputErr.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := AnalyzeResponse{Analysis: consolidated}
	if s.db != nil {
		if err := s.db.UpsertCompany(r.Context(), req.Company, nil); err != nil {
			log.Printf("Warning: failed to persist company: %v", err)
		}
		id, err := s.db.SaveAnalysis(r.Context(), consolidated)
		if err != nil {
			log.Printf("Warning: failed to persist analysis: %v", err)
		} else {
			resp.ID = id.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListAnalyses returns stored analysis summaries, newest first.
// Optional query parameters: siren, limit.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "history persistence is not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	summaries, err := s.db.ListAnalyses(r.Context(), r.URL.Query().Get("siren"), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"analyses": summaries})
}

// handleGetAnalysis returns one stored analysis by ID.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "history persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	record, err := s.db.GetAnalysis(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "analysis not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}
