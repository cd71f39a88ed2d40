package types

import "fmt"

// Compliance is the conformity breakdown returned by the completion service
// for one section, broken down into ESRS disclosure references.
type Compliance struct {
	Conforming          []string `json:"conforming"`
	NonConforming       []string `json:"non_conforming"`
	PartiallyConforming []string `json:"partially_conforming"`
}

// SectionResult is the validated outcome of analyzing one section of a
// report. The payload originates from the completion service and must pass
// schema validation before it is converted to this type.
type SectionResult struct {
	Score            float64    `json:"score"`
	Evaluation       string     `json:"evaluation"`
	Strengths        []string   `json:"strengths"`
	ImprovementAreas []string   `json:"improvement_areas"`
	Compliance       Compliance `json:"compliance"`
	Recommendations  []string   `json:"recommendations"`

	// Placeholder is true when the section could not be analyzed and a
	// zeroed stand-in was substituted. Callers can distinguish a genuine
	// zero score from a failed section through this flag.
	Placeholder bool `json:"placeholder,omitempty"`
}

// PlaceholderResult returns the zeroed stand-in used when a section analysis
// fails. Lists are empty but non-nil so serialization stays stable.
func PlaceholderResult(section Section) *SectionResult {
	return &SectionResult{
		Score:            0,
		Evaluation:       fmt.Sprintf("Analysis failed for section %s", section),
		Strengths:        []string{},
		ImprovementAreas: []string{},
		Compliance: Compliance{
			Conforming:          []string{},
			NonConforming:       []string{},
			PartiallyConforming: []string{},
		},
		Recommendations: []string{},
		Placeholder:     true,
	}
}
