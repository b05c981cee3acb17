package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Holy-Spoon/Subway-System-Planner/models"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS schedule_sources (
		name        TEXT PRIMARY KEY,
		body        BYTEA NOT NULL,
		import_id   UUID NOT NULL,
		imported_at TIMESTAMPTZ NOT NULL
	)
`

// PostgresSourceRepository stores schedule sources as named blobs in Postgres
type PostgresSourceRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSourceRepository(ctx context.Context, databaseURL string) (*PostgresSourceRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSourceRepository{pool: pool}, nil
}

func (r *PostgresSourceRepository) Close() {
	r.pool.Close()
}

func (r *PostgresSourceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *PostgresSourceRepository) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var body []byte
	err := r.pool.QueryRow(ctx, `SELECT body FROM schedule_sources WHERE name = $1`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("source %s: %w", name, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to query source %s: %w", name, err)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (r *PostgresSourceRepository) SaveSource(ctx context.Context, importID uuid.UUID, name string, body []byte) error {
	query := `
		INSERT INTO schedule_sources (name, body, import_id, imported_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			body = EXCLUDED.body,
			import_id = EXCLUDED.import_id,
			imported_at = EXCLUDED.imported_at
	`

	if _, err := r.pool.Exec(ctx, query, name, body, importID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save source %s: %w", name, err)
	}
	return nil
}

func (r *PostgresSourceRepository) ListSources(ctx context.Context) ([]models.ScheduleSource, error) {
	query := `
		SELECT name, octet_length(body), import_id, imported_at
		FROM schedule_sources
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []models.ScheduleSource
	for rows.Next() {
		var s models.ScheduleSource
		if err := rows.Scan(&s.Name, &s.Size, &s.ImportID, &s.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}
