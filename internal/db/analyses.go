package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/marion/csrd-analyzer/internal/types"
)

// UpsertCompany stores or refreshes a company row keyed by SIREN. Companies
// without a SIREN are not persisted.
func (db *DB) UpsertCompany(ctx context.Context, company types.CompanyContext, registryData any) error {
	if company.SIREN == "" {
		return nil
	}

	var registryJSON []byte
	if registryData != nil {
		var err error
		registryJSON, err = json.Marshal(registryData)
		if err != nil {
			return fmt.Errorf("failed to marshal registry data: %w", err)
		}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO companies (siren, name, sector, size, registry_data)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (siren) DO UPDATE SET name = $2, sector = $3, size = $4, registry_data = COALESCE($5, companies.registry_data), updated_at = NOW()`,
		company.SIREN, company.Name, company.Sector, company.Size, registryJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert company: %w", err)
	}
	return nil
}

// SaveAnalysis stores a consolidated analysis and returns its ID.
func (db *DB) SaveAnalysis(ctx context.Context, analysis *types.ConsolidatedAnalysis) (uuid.UUID, error) {
	id := uuid.New()

	sectionScores, err := json.Marshal(analysis.SectionScores)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal section scores: %w", err)
	}
	recommendations, err := json.Marshal(analysis.Recommendations)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	nonConformities, err := json.Marshal(analysis.NonConformities)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal non-conformities: %w", err)
	}
	content, err := json.Marshal(analysis)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, company_siren, company_name, global_score, section_scores, recommendations, non_conformities, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, analysis.Metadata.Company.SIREN, analysis.Metadata.Company.Name,
		analysis.GlobalScore, sectionScores, recommendations, nonConformities,
		content, analysis.Metadata.AnalysisDate,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	return id, nil
}

// GetAnalysis retrieves one stored analysis by ID. Returns nil when the ID
// is unknown.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	var record AnalysisRecord
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, COALESCE(company_siren, ''), company_name, global_score, content, created_at
		 FROM analyses WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.CompanySIREN, &record.CompanyName, &record.GlobalScore, &content, &record.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(content, &record.Content); err != nil {
		return nil, fmt.Errorf("failed to decode stored analysis: %w", err)
	}

	return &record, nil
}

// ListAnalyses returns analysis summaries, newest first, optionally
// filtered by company SIREN.
func (db *DB) ListAnalyses(ctx context.Context, siren string, limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, COALESCE(company_siren, ''), company_name, global_score, created_at
		 FROM analyses`
	args := []any{}
	if siren != "" {
		query += ` WHERE company_siren = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, siren, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	summaries := make([]AnalysisSummary, 0)
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.CompanySIREN, &s.CompanyName, &s.GlobalScore, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}

	return summaries, nil
}
