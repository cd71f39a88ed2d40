// Package consolidate merges per-section analysis results into the final
// consolidated record: weighted global score, aggregated findings and run
// metadata.
package consolidate

import (
	"fmt"
	"time"

	"github.com/marion/csrd-analyzer/internal/analysis"
	"github.com/marion/csrd-analyzer/internal/rubric"
	"github.com/marion/csrd-analyzer/internal/types"
)

// Versions recorded in the metadata of every consolidated analysis.
const (
	SchemaVersion   = "2024"
	AnalyzerVersion = "2.0"
)

// Consolidate merges the section results into one ConsolidatedAnalysis.
// Aggregated lists concatenate in fixed section order and duplicates are
// preserved: the same recommendation issued by two sections appears twice.
// A section missing from the result is treated as a zeroed placeholder.
// Pure aggregation aside from the timestamp.
func Consolidate(result *analysis.Result, r *rubric.Rubric, company types.CompanyContext) *types.ConsolidatedAnalysis {
	if r == nil {
		r = rubric.Default()
	}

	consolidated := &types.ConsolidatedAnalysis{
		SectionScores: make(map[types.Section]types.SectionScore, len(types.MainSections())),
		Sections:      make(map[types.Section]*types.SectionResult, len(types.MainSections())),
		ComplianceSummary: types.Compliance{
			Conforming:          []string{},
			NonConforming:       []string{},
			PartiallyConforming: []string{},
		},
		Recommendations: []string{},
		NonConformities: []string{},
		Metadata: types.Metadata{
			Company:         company,
			AnalysisDate:    time.Now().UTC(),
			SchemaVersion:   SchemaVersion,
			AnalyzerVersion: AnalyzerVersion,
		},
	}

	scores := make(map[types.Section]float64, len(types.MainSections()))
	for _, section := range types.MainSections() {
		sectionResult := result.Sections[section]
		if sectionResult == nil {
			sectionResult = types.PlaceholderResult(section)
		}
		consolidated.Sections[section] = sectionResult

		weight := r.SectionWeight(section)
		scores[section] = sectionResult.Score
		consolidated.SectionScores[section] = types.SectionScore{
			Score:         sectionResult.Score,
			WeightedScore: rubric.Round2(sectionResult.Score * weight),
			Weight:        weight,
		}

		consolidated.Recommendations = append(consolidated.Recommendations, sectionResult.Recommendations...)
		consolidated.ComplianceSummary.Conforming = append(consolidated.ComplianceSummary.Conforming, sectionResult.Compliance.Conforming...)
		consolidated.ComplianceSummary.NonConforming = append(consolidated.ComplianceSummary.NonConforming, sectionResult.Compliance.NonConforming...)
		consolidated.ComplianceSummary.PartiallyConforming = append(consolidated.ComplianceSummary.PartiallyConforming, sectionResult.Compliance.PartiallyConforming...)
	}
	consolidated.NonConformities = consolidated.ComplianceSummary.NonConforming

	consolidated.GlobalScore = r.WeightedGlobal(scores)

	consolidated.Statistics = types.Statistics{
		TotalConforming:      len(consolidated.ComplianceSummary.Conforming),
		TotalNonConforming:   len(consolidated.ComplianceSummary.NonConforming),
		TotalPartial:         len(consolidated.ComplianceSummary.PartiallyConforming),
		TotalRecommendations: len(consolidated.Recommendations),
	}

	for _, failure := range result.Warnings {
		consolidated.Warnings = append(consolidated.Warnings, failure.Error())
	}

	consolidated.ExecutiveSummary = executiveSummary(consolidated)

	return consolidated
}

// executiveSummary renders the human-readable run summary.
func executiveSummary(a *types.ConsolidatedAnalysis) string {
	return fmt.Sprintf(`ESRS analysis - Global score: %.2f/100

Performance by section:
- Environmental: %.1f/100
- Social: %.1f/100
- Governance: %.1f/100

Points of attention:
- %d non-conformities identified
- %d partial conformities
- %d improvement recommendations`,
		a.GlobalScore,
		a.SectionScores[types.SectionEnvironmental].Score,
		a.SectionScores[types.SectionSocial].Score,
		a.SectionScores[types.SectionGovernance].Score,
		a.Statistics.TotalNonConforming,
		a.Statistics.TotalPartial,
		a.Statistics.TotalRecommendations,
	)
}
