package types

import "time"

// SectionScore records how one section contributed to the global score.
type SectionScore struct {
	Score         float64 `json:"score"`
	WeightedScore float64 `json:"weighted_score"`
	Weight        float64 `json:"weight"`
}

// Statistics summarizes the finding counts across all sections.
type Statistics struct {
	TotalConforming      int `json:"total_conforming"`
	TotalNonConforming   int `json:"total_non_conforming"`
	TotalPartial         int `json:"total_partially_conforming"`
	TotalRecommendations int `json:"total_recommendations"`
}

// Metadata carries the run information attached to a consolidated analysis.
type Metadata struct {
	Company         CompanyContext `json:"company"`
	AnalysisDate    time.Time      `json:"analysis_date"`
	SchemaVersion   string         `json:"schema_version"`
	AnalyzerVersion string         `json:"analyzer_version"`
}

// ConsolidatedAnalysis is the final record produced for one analysis run.
// It is immutable once constructed and is the only value the rendering and
// export collaborators consume.
type ConsolidatedAnalysis struct {
	GlobalScore       float64                    `json:"global_score"`
	SectionScores     map[Section]SectionScore   `json:"section_scores"`
	Sections          map[Section]*SectionResult `json:"detailed_analysis"`
	ComplianceSummary Compliance                 `json:"compliance_summary"`
	Recommendations   []string                   `json:"recommendations"`
	NonConformities   []string                   `json:"non_conformities"`
	Statistics        Statistics                 `json:"statistics"`
	ExecutiveSummary  string                     `json:"executive_summary"`
	Metadata          Metadata                   `json:"metadata"`

	// Warnings records section-local degradations (placeholder results)
	// so callers can tell a clean run from a partially failed one.
	Warnings []string `json:"warnings,omitempty"`
}
