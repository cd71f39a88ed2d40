package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/marion/csrd-analyzer/internal/types"
)

// AnalysisRecord is a stored consolidated analysis.
type AnalysisRecord struct {
	ID           uuid.UUID                   `json:"id"`
	CompanySIREN string                      `json:"company_siren,omitempty"`
	CompanyName  string                      `json:"company_name"`
	GlobalScore  float64                     `json:"global_score"`
	Content      *types.ConsolidatedAnalysis `json:"content"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// AnalysisSummary is a listing row for the history view; the full content
// is fetched separately by ID.
type AnalysisSummary struct {
	ID           uuid.UUID `json:"id"`
	CompanySIREN string    `json:"company_siren,omitempty"`
	CompanyName  string    `json:"company_name"`
	GlobalScore  float64   `json:"global_score"`
	CreatedAt    time.Time `json:"created_at"`
}
