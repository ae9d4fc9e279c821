package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"deal_analyzer/pkg/core/deal"
	"deal_analyzer/pkg/core/risk"
)

// DealRecord is what the repo stores per analyzed deal: the inputs, the
// computed metrics, and the risk assessment if one was run.
type DealRecord struct {
	ID         uuid.UUID        `json:"id"`
	Label      string           `json:"label"`
	Input      deal.Input       `json:"input"`
	Metrics    deal.Metrics     `json:"metrics"`
	Assessment *risk.Assessment `json:"assessment,omitempty"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// DealRepo stores deal analyses.
type DealRepo struct{}

// NewDealRepo creates a repository instance.
func NewDealRepo() *DealRepo {
	return &DealRepo{}
}

// Schema assumption (migrations live outside this service):
//
//	CREATE TABLE IF NOT EXISTS deal_analysis (
//	  id UUID PRIMARY KEY,
//	  label TEXT,
//	  deal_json JSONB,
//	  updated_at TIMESTAMPTZ
//	);

// Save upserts one record by ID. The inputs, metrics, and assessment
// travel as a single JSONB blob; label is a separate column so listings
// do not deserialize the blob.
func (r *DealRepo) Save(ctx context.Context, rec *DealRecord) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal deal record: %w", err)
	}

	query := `
		INSERT INTO deal_analysis (id, label, deal_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			label = EXCLUDED.label,
			deal_json = EXCLUDED.deal_json,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := pool.Exec(ctx, query, rec.ID, rec.Label, jsonData, rec.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save deal record: %w", err)
	}
	return nil
}

// Load retrieves one record by ID.
func (r *DealRepo) Load(ctx context.Context, id uuid.UUID) (*DealRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := pool.QueryRow(ctx, `SELECT deal_json FROM deal_analysis WHERE id = $1`, id).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no deal record for id %s", id)
		}
		return nil, fmt.Errorf("failed to load deal record: %w", err)
	}

	var rec DealRecord
	if err := json.Unmarshal(jsonData, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deal record: %w", err)
	}
	return &rec, nil
}

// List returns record IDs and labels, most recently updated first.
func (r *DealRepo) List(ctx context.Context, limit int) ([]DealRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := pool.Query(ctx,
		`SELECT id, label, updated_at FROM deal_analysis ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list deal records: %w", err)
	}
	defer rows.Close()

	var out []DealRecord
	for rows.Next() {
		var rec DealRecord
		if err := rows.Scan(&rec.ID, &rec.Label, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deal record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
