package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/ppiankov/factcheck/internal/model"
)

const schema = `
	CREATE TABLE IF NOT EXISTS fact_check_results (
		id         TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		verdict    TEXT NOT NULL,
		payload    JSONB NOT NULL
	)
`

// PostgresStore keeps results in PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open database
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects, verifies the connection and creates the table
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewPostgresStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the results table if needed
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create results table: %w", err)
	}
	return nil
}

// Save inserts res; an existing id is rejected
func (s *PostgresStore) Save(ctx context.Context, res *model.FactCheckResult) error {
	payload, err := encode(res)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO fact_check_results (id, created_at, verdict, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query, res.ID, res.Timestamp, string(res.Verdict), payload)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("save result %s: %w", res.ID, ErrExists)
	}
	return nil
}

// Get retrieves a result by id
func (s *PostgresStore) Get(ctx context.Context, id string) (*model.FactCheckResult, error) {
	query := `
		SELECT payload
		FROM fact_check_results
		WHERE id = $1
	`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return decode(payload)
}

// Close closes the database
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
