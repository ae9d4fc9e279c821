package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"deal_analyzer/pkg/core/market"
)

// MarketRepo stores zip-level market snapshots so a deal can still be
// risk-scored when the upstream API is down or out of quota.
type MarketRepo struct{}

// NewMarketRepo creates a repository instance.
func NewMarketRepo() *MarketRepo {
	return &MarketRepo{}
}

// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS market_snapshot (
//	  zip_code TEXT,
//	  snapshot_date DATE,
//	  stats_json JSONB,
//	  PRIMARY KEY (zip_code, snapshot_date)
//	);

// Save upserts today's snapshot for the zip.
func (r *MarketRepo) Save(ctx context.Context, stats *market.Stats) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal market snapshot: %w", err)
	}

	query := `
		INSERT INTO market_snapshot (zip_code, snapshot_date, stats_json)
		VALUES ($1, $2, $3)
		ON CONFLICT (zip_code, snapshot_date)
		DO UPDATE SET stats_json = EXCLUDED.stats_json;
	`
	day := stats.AsOf
	if day.IsZero() {
		day = time.Now().UTC()
	}
	if _, err := pool.Exec(ctx, query, stats.ZipCode, day.Truncate(24*time.Hour), jsonData); err != nil {
		return fmt.Errorf("failed to save market snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recent snapshot for a zip, however stale.
func (r *MarketRepo) Latest(ctx context.Context, zipCode string) (*market.Stats, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := pool.QueryRow(ctx,
		`SELECT stats_json FROM market_snapshot WHERE zip_code = $1 ORDER BY snapshot_date DESC LIMIT 1`,
		zipCode).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no market snapshot for zip %s", zipCode)
		}
		return nil, fmt.Errorf("failed to load market snapshot: %w", err)
	}

	var stats market.Stats
	if err := json.Unmarshal(jsonData, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal market snapshot: %w", err)
	}
	return &stats, nil
}
