package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marion/csrd-analyzer/internal/types"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadWeights(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rubric)
	}{
		{
			name: "Section weights not summing to 1",
			mutate: func(r *Rubric) {
				r.SectionWeights[types.SectionEnvironmental] = 0.5
			},
		},
		{
			name: "Criterion weights not summing to 1",
			mutate: func(r *Rubric) {
				r.Criteria[0].Weight = 0.5
			},
		},
		{
			name: "Subcriteria weights not summing to 1",
			mutate: func(r *Rubric) {
				r.Criteria[1].Subcriteria[0].Weight = 0.9
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Default()
			tt.mutate(r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestWeightedGlobal(t *testing.T) {
	r := Default()

	tests := []struct {
		name   string
		scores map[types.Section]float64
		want   float64
	}{
		{
			name: "All sections present",
			scores: map[types.Section]float64{
				types.SectionEnvironmental: 80,
				types.SectionSocial:        70,
				types.SectionGovernance:    75,
			},
			want: 76.5,
		},
		{
			name: "End-to-end reference scores",
			scores: map[types.Section]float64{
				types.SectionEnvironmental: 80,
				types.SectionSocial:        60,
				types.SectionGovernance:    90,
			},
			want: 77.0,
		},
		{
			name: "Missing sections score zero, weights unchanged",
			scores: map[types.Section]float64{
				types.SectionEnvironmental: 80,
			},
			want: 32.0,
		},
		{
			name:   "Empty scores",
			scores: map[types.Section]float64{},
			want:   0,
		},
		{
			name: "Perfect scores stay in range",
			scores: map[types.Section]float64{
				types.SectionEnvironmental: 100,
				types.SectionSocial:        100,
				types.SectionGovernance:    100,
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.WeightedGlobal(tt.scores)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestSectionWeight(t *testing.T) {
	r := Default()
	assert.Equal(t, 0.4, r.SectionWeight(types.SectionEnvironmental))
	assert.Equal(t, 0.3, r.SectionWeight(types.SectionSocial))
	assert.Equal(t, 0.3, r.SectionWeight(types.SectionGovernance))
	assert.Equal(t, 0.0, r.SectionWeight(types.Section("unknown")))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 76.5, Round2(76.499999999))
	assert.Equal(t, 32.0, Round2(32.0000001))
	assert.Equal(t, 0.33, Round2(0.325))
}
