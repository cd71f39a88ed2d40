package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompanyContext(t *testing.T) {
	company := NewCompanyContext("Acme")

	assert.Equal(t, "Acme", company.Name)
	assert.Empty(t, company.SIREN)
	assert.Equal(t, UnspecifiedValue, company.Sector)
	assert.Equal(t, UnspecifiedValue, company.Size)
}

func TestCompanyContextValidate(t *testing.T) {
	tests := []struct {
		name    string
		company CompanyContext
		wantErr bool
	}{
		{
			name:    "Valid company",
			company: NewCompanyContext("Acme"),
			wantErr: false,
		},
		{
			name:    "Missing name",
			company: CompanyContext{Sector: "energy", Size: "large"},
			wantErr: true,
		},
		{
			name:    "Name only is enough",
			company: CompanyContext{Name: "Acme"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.company.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMainSectionsOrder(t *testing.T) {
	assert.Equal(t, []Section{SectionEnvironmental, SectionSocial, SectionGovernance}, MainSections())
}

func TestSectionIsMain(t *testing.T) {
	assert.True(t, SectionEnvironmental.IsMain())
	assert.True(t, SectionSocial.IsMain())
	assert.True(t, SectionGovernance.IsMain())
	assert.False(t, Section("cross-cutting").IsMain())
	assert.False(t, Section("").IsMain())
}

func TestPlaceholderResult(t *testing.T) {
	result := PlaceholderResult(SectionSocial)

	assert.Zero(t, result.Score)
	assert.Equal(t, "Analysis failed for section social", result.Evaluation)
	assert.True(t, result.Placeholder)

	// Lists are empty but non-nil so they serialize as [] rather than null.
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
	assert.Contains(t, string(data), `"strengths":[]`)
	assert.Contains(t, string(data), `"non_conforming":[]`)
}
