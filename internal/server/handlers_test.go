package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marion/csrd-analyzer/internal/analysis"
	"github.com/marion/csrd-analyzer/internal/types"
)

// testServer builds a server around a stubbed analysis function, without a
// completion client or database.
func testServer(analyze func(ctx context.Context, reportText string, company types.CompanyContext) (*types.ConsolidatedAnalysis, error)) *Server {
	return &Server{analyze: analyze}
}

func stubConsolidated() *types.ConsolidatedAnalysis {
	return &types.ConsolidatedAnalysis{
		GlobalScore: 77.0,
		Metadata: types.Metadata{
			SchemaVersion:   "2024",
			AnalyzerVersion: "2.0",
		},
	}
}

func postAnalyses(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleCreateAnalysis(rec, req)
	return rec
}

func TestHandleCreateAnalysis(t *testing.T) {
	var gotReport string
	var gotCompany types.CompanyContext
	s := testServer(func(_ context.Context, reportText string, company types.CompanyContext) (*types.ConsolidatedAnalysis, error) {
		gotReport = reportText
		gotCompany = company
		return stubConsolidated(), nil
	})

	rec := postAnalyses(t, s, `{
		"report_text": "Our sustainability report for 2024...",
		"company": {"name": "Acme"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.ID) // no database configured
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, 77.0, resp.Analysis.GlobalScore)

	assert.Equal(t, "Our sustainability report for 2024...", gotReport)
	assert.Equal(t, "Acme", gotCompany.Name)
	// Unset sector and size default before analysis.
	assert.Equal(t, types.UnspecifiedValue, gotCompany.Sector)
	assert.Equal(t, types.UnspecifiedValue, gotCompany.Size)
}

func TestHandleCreateAnalysisRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "Malformed JSON",
			body:    `{not json`,
			wantMsg: "Invalid request body",
		},
		{
			name:    "Missing report text",
			body:    `{"company": {"name": "Acme"}}`,
			wantMsg: "Invalid request",
		},
		{
			name:    "Missing company name",
			body:    `{"report_text": "text", "company": {}}`,
			wantMsg: "Invalid request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			s := testServer(func(context.Context, string, types.CompanyContext) (*types.ConsolidatedAnalysis, error) {
				called = true
				return stubConsolidated(), nil
			})

			rec := postAnalyses(t, s, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.False(t, called, "analysis should not run for an invalid request")
		})
	}
}

func TestHandleCreateAnalysisInputValidationError(t *testing.T) {
	s := testServer(func(context.Context, string, types.CompanyContext) (*types.ConsolidatedAnalysis, error) {
		return nil, &analysis.InputValidationError{Message: "report text is empty"}
	})

	rec := postAnalyses(t, s, `{"report_text": "   ", "company": {"name": "Acme"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "report text is empty")
}

func TestHandleCreateAnalysisInternalError(t *testing.T) {
	s := testServer(func(context.Context, string, types.CompanyContext) (*types.ConsolidatedAnalysis, error) {
		return nil, assert.AnError
	})

	rec := postAnalyses(t, s, `{"report_text": "text", "company": {"name": "Acme"}}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleListAnalysesWithoutDatabase(t *testing.T) {
	s := testServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/analyses", nil)
	rec := httptest.NewRecorder()
	s.handleListAnalyses(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "history persistence is not configured")
}

func TestHandleGetAnalysisWithoutDatabase(t *testing.T) {
	s := testServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/analyses/123", nil)
	req.SetPathValue("id", "123")
	rec := httptest.NewRecorder()
	s.handleGetAnalysis(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := testServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
