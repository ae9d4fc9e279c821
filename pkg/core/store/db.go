// Package store persists analyzed deals and market snapshots in
// Postgres. One process-wide pgx pool; repos are thin and keyed by the
// pool, so they can be constructed freely.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB opens the connection pool from the DATABASE_URL environment
// variable and verifies the database is reachable. Safe to call more
// than once; only the first call connects.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		pool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			err = fmt.Errorf("failed to open database pool: %w", err)
			return
		}
		if err = pool.Ping(ctx); err != nil {
			pool.Close()
			pool = nil
			err = fmt.Errorf("database unreachable: %w", err)
		}
	})
	return err
}

// GetPool returns the shared pool, or nil before InitDB.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
