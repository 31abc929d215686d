// SPDX-License-Identifier: MIT

// Package store persists calculation history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

// Config defines standard SQLite operational parameters.
type Config struct {
	BusyTimeout  time.Duration
	MaxOpenConns int
}

// DefaultConfig returns the recommended SQLite configuration.
func DefaultConfig() Config {
	return Config{
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 25,
	}
}

// Open initializes a SQLite connection pool with mandatory PRAGMAs.
// WAL mode and busy_timeout are set in the DSN so they apply to every
// connection in the pool.
func Open(dbPath string, cfg Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		dbPath, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}

	return db, nil
}

// Calculation is one persisted pricing calculation.
type Calculation struct {
	ID            string    `json:"id"`
	Ingredient    string    `json:"ingredient_name"`
	QuantityInput string    `json:"quantity_input"`
	Price         float64   `json:"price_input"`
	PerKG         float64   `json:"per_kg"`
	PerG          float64   `json:"per_g"`
	PerMG         float64   `json:"per_mg"`
	Source        string    `json:"source"` // "single" or "batch"
	CreatedAt     time.Time `json:"created_at"`
}

// Store provides access to the calculations table.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id             TEXT PRIMARY KEY,
	ingredient     TEXT NOT NULL,
	quantity_input TEXT NOT NULL,
	price          REAL NOT NULL,
	per_kg         REAL NOT NULL,
	per_g          REAL NOT NULL,
	per_mg         REAL NOT NULL,
	source         TEXT NOT NULL DEFAULT 'single',
	created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations(created_at DESC);
`

// InitSchema creates the calculations table if it does not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: init schema: %w", err)
	}
	return nil
}

// Save inserts one calculation.
func (s *Store) Save(ctx context.Context, c Calculation) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calculations (id, ingredient, quantity_input, price, per_kg, per_g, per_mg, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Ingredient, c.QuantityInput, c.Price, c.PerKG, c.PerG, c.PerMG, c.Source, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: save calculation: %w", err)
	}
	return nil
}

// ListRecent returns the most recent calculations, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Calculation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ingredient, quantity_input, price, per_kg, per_g, per_mg, source, created_at
		 FROM calculations ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list calculations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Calculation
	for rows.Next() {
		var c Calculation
		if err := rows.Scan(&c.ID, &c.Ingredient, &c.QuantityInput, &c.Price,
			&c.PerKG, &c.PerG, &c.PerMG, &c.Source, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan calculation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate calculations: %w", err)
	}
	return out, nil
}

// Count returns the total number of stored calculations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calculations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count calculations: %w", err)
	}
	return n, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
