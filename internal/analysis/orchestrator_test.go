package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marion/csrd-analyzer/internal/types"
)

// stubClient returns canned payloads per section, derived from the system
// instruction which names the section under analysis.
type stubClient struct {
	mu       sync.Mutex
	calls    int
	payloads map[types.Section]string
	errs     map[types.Section]error
}

func (s *stubClient) GenerateJSON(_ context.Context, system, _ string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	for _, section := range types.MainSections() {
		if strings.Contains(system, string(section)) {
			if err := s.errs[section]; err != nil {
				return "", err
			}
			return s.payloads[section], nil
		}
	}
	return "", fmt.Errorf("no stub payload for system instruction %q", system)
}

func (s *stubClient) Model() string { return "stub" }
func (s *stubClient) Close() error  { return nil }

func (s *stubClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func validSectionPayload(score float64, recommendation string) string {
	return fmt.Sprintf(`{
		"score": %g,
		"evaluation": "assessed",
		"strengths": ["clear disclosures"],
		"improvement_areas": ["more detail needed"],
		"compliance": {
			"conforming": ["ESRS X.1"],
			"non_conforming": ["ESRS X.2"],
			"partially_conforming": []
		},
		"recommendations": [%q]
	}`, score, recommendation)
}

func allValidStub() *stubClient {
	return &stubClient{
		payloads: map[types.Section]string{
			types.SectionEnvironmental: validSectionPayload(80, "Extend scope 3 reporting"),
			types.SectionSocial:        validSectionPayload(60, "Improve traceability"),
			types.SectionGovernance:    validSectionPayload(90, "Document board oversight"),
		},
	}
}

func TestAnalyzeAllSectionsSucceed(t *testing.T) {
	stub := allValidStub()
	o := NewOrchestrator(stub, nil, nil)

	result, err := o.Analyze(context.Background(), "report text", types.NewCompanyContext("Acme"), nil)
	require.NoError(t, err)

	assert.Len(t, result.Sections, 3)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 3, stub.callCount())
	assert.Equal(t, 80.0, result.Sections[types.SectionEnvironmental].Score)
	assert.Equal(t, 60.0, result.Sections[types.SectionSocial].Score)
	assert.Equal(t, 90.0, result.Sections[types.SectionGovernance].Score)
	assert.False(t, result.Sections[types.SectionEnvironmental].Placeholder)
}

func TestAnalyzeMalformedSectionDegradesToPlaceholder(t *testing.T) {
	stub := allValidStub()
	stub.payloads[types.SectionSocial] = `{not valid json`

	o := NewOrchestrator(stub, nil, nil)
	result, err := o.Analyze(context.Background(), "report text", types.NewCompanyContext("Acme"), nil)
	require.NoError(t, err)

	// Every section is present; the malformed one is a flagged placeholder.
	require.Len(t, result.Sections, 3)
	social := result.Sections[types.SectionSocial]
	assert.True(t, social.Placeholder)
	assert.Equal(t, 0.0, social.Score)
	assert.Contains(t, social.Evaluation, "social")
	assert.False(t, result.Sections[types.SectionEnvironmental].Placeholder)
	assert.False(t, result.Sections[types.SectionGovernance].Placeholder)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.SectionSocial, result.Warnings[0].Section)
}

func TestAnalyzeMissingKeysDegradesToPlaceholder(t *testing.T) {
	stub := allValidStub()
	stub.payloads[types.SectionGovernance] = `{"score": 70}`

	o := NewOrchestrator(stub, nil, nil)
	result, err := o.Analyze(context.Background(), "report text", types.NewCompanyContext("Acme"), nil)
	require.NoError(t, err)

	assert.True(t, result.Sections[types.SectionGovernance].Placeholder)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "validation", result.Warnings[0].Stage)
}

func TestAnalyzeServiceErrorIsSectionLocal(t *testing.T) {
	stub := allValidStub()
	stub.errs = map[types.Section]error{
		types.SectionEnvironmental: fmt.Errorf("rate limited"),
	}

	o := NewOrchestrator(stub, nil, nil)
	result, err := o.Analyze(context.Background(), "report text", types.NewCompanyContext("Acme"), nil)
	require.NoError(t, err)

	assert.True(t, result.Sections[types.SectionEnvironmental].Placeholder)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "completion", result.Warnings[0].Stage)
	assert.ErrorContains(t, result.Warnings[0], "rate limited")
}

func TestAnalyzeEmptyReportFailsFast(t *testing.T) {
	stub := allValidStub()
	o := NewOrchestrator(stub, nil, nil)

	for _, text := range []string{"", "   \n\t "} {
		result, err := o.Analyze(context.Background(), text, types.NewCompanyContext("Acme"), nil)
		assert.Nil(t, result)

		var inputErr *InputValidationError
		require.ErrorAs(t, err, &inputErr)
	}

	// Fail-fast: no completion calls were issued.
	assert.Equal(t, 0, stub.callCount())
}

func TestAnalyzeInvalidCompanyFailsFast(t *testing.T) {
	stub := allValidStub()
	o := NewOrchestrator(stub, nil, nil)

	_, err := o.Analyze(context.Background(), "report text", types.CompanyContext{}, nil)

	var inputErr *InputValidationError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, 0, stub.callCount())
}

func TestAnalyzeConcurrentMatchesSequential(t *testing.T) {
	stub := allValidStub()
	stub.payloads[types.SectionSocial] = `broken`

	o := NewOrchestrator(stub, nil, &Options{Concurrent: true})
	result, err := o.Analyze(context.Background(), "report text", types.NewCompanyContext("Acme"), nil)
	require.NoError(t, err)

	assert.Len(t, result.Sections, 3)
	assert.True(t, result.Sections[types.SectionSocial].Placeholder)
	assert.Equal(t, 80.0, result.Sections[types.SectionEnvironmental].Score)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.SectionSocial, result.Warnings[0].Section)
}

func TestAnalyzeEmitsProgress(t *testing.T) {
	stub := allValidStub()
	var events []ProgressEvent
	o := NewOrchestrator(stub, nil, &Options{
		OnProgress: func(event ProgressEvent) { events = append(events, event) },
	})

	_, err := o.Analyze(context.Background(), "report text", types.NewCompanyContext("Acme"), nil)
	require.NoError(t, err)

	// Two events per section: analyzing and done.
	assert.Len(t, events, 6)
	assert.Equal(t, types.SectionEnvironmental, events[0].Section)
	assert.Equal(t, "analyzing", events[0].Message)
}
