// Package rubric holds the static weighted-criteria configuration used to
// combine per-section scores into a single global score.
package rubric

import (
	"fmt"
	"math"

	"github.com/marion/csrd-analyzer/internal/types"
)

// weightTolerance bounds the floating-point slack allowed when checking
// that configured weights sum to 1.0.
const weightTolerance = 1e-9

// Subcriterion is one weighted sub-axis of a scoring criterion.
type Subcriterion struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Criterion is one weighted top-level axis of the detailed quality rubric,
// used to shape the compliance breakdown requested from the completion
// service.
type Criterion struct {
	Name        string         `json:"name"`
	Weight      float64        `json:"weight"`
	Subcriteria []Subcriterion `json:"subcriteria"`
}

// Rubric combines the per-section weights with the detailed quality
// criteria. It is static configuration, fixed for the life of the process.
type Rubric struct {
	SectionWeights map[types.Section]float64
	Criteria       []Criterion
}

// Default returns the standard CSRD scoring rubric: environmental 0.4,
// social 0.3, governance 0.3, plus the four-axis quality criteria.
func Default() *Rubric {
	return &Rubric{
		SectionWeights: map[types.Section]float64{
			types.SectionEnvironmental: 0.4,
			types.SectionSocial:        0.3,
			types.SectionGovernance:    0.3,
		},
		Criteria: []Criterion{
			{
				Name:   "Regulatory compliance",
				Weight: 0.3,
				Subcriteria: []Subcriterion{
					{Name: "CSRD", Weight: 0.4},
					{Name: "Deforestation", Weight: 0.3},
					{Name: "Other regulations", Weight: 0.3},
				},
			},
			{
				Name:   "Data quality",
				Weight: 0.25,
				Subcriteria: []Subcriterion{
					{Name: "Accuracy", Weight: 0.4},
					{Name: "Traceability", Weight: 0.3},
					{Name: "Sources", Weight: 0.3},
				},
			},
			{
				Name:   "Commitment and actions",
				Weight: 0.25,
				Subcriteria: []Subcriterion{
					{Name: "Objectives", Weight: 0.4},
					{Name: "Action plans", Weight: 0.3},
					{Name: "Monitoring", Weight: 0.3},
				},
			},
			{
				Name:   "Transparency",
				Weight: 0.2,
				Subcriteria: []Subcriterion{
					{Name: "Identified risks", Weight: 0.4},
					{Name: "Improvement areas", Weight: 0.3},
					{Name: "Communication", Weight: 0.3},
				},
			},
		},
	}
}

// Validate checks the design invariants: section weights sum to 1.0, as do
// the top-level criterion weights and each criterion's subcriteria weights.
func (r *Rubric) Validate() error {
	sum := 0.0
	for _, weight := range r.SectionWeights {
		sum += weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("section weights sum to %g, want 1.0", sum)
	}

	criteriaSum := 0.0
	for _, criterion := range r.Criteria {
		criteriaSum += criterion.Weight

		subSum := 0.0
		for _, sub := range criterion.Subcriteria {
			subSum += sub.Weight
		}
		if math.Abs(subSum-1.0) > weightTolerance {
			return fmt.Errorf("subcriteria weights of %q sum to %g, want 1.0", criterion.Name, subSum)
		}
	}
	if math.Abs(criteriaSum-1.0) > weightTolerance {
		return fmt.Errorf("criteria weights sum to %g, want 1.0", criteriaSum)
	}

	return nil
}

// WeightedGlobal combines section scores into the global score using the
// fixed configured weights. Policy: a configured section missing from
// scores contributes 0 with its weight unchanged; the result is never
// renormalized over the present sections. The result is rounded to two
// decimals.
func (r *Rubric) WeightedGlobal(scores map[types.Section]float64) float64 {
	total := 0.0
	for section, weight := range r.SectionWeights {
		total += scores[section] * weight
	}
	return Round2(total)
}

// SectionWeight returns the configured weight for a section, 0 if the
// section is not part of the rubric.
func (r *Rubric) SectionWeight(section types.Section) float64 {
	return r.SectionWeights[section]
}

// Round2 rounds to two decimal places, matching the precision of reported
// scores.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
