package repository

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"github.com/Holy-Spoon/Subway-System-Planner/models"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteDB wraps a SQL database connection for SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *SQLiteDB) GetDB() *sql.DB {
	return s.db
}

// EnsureSchema creates the schedule tables if they don't exist
func (s *SQLiteDB) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SQLiteSourceRepository stores schedule sources as named blobs in SQLite
type SQLiteSourceRepository struct {
	db *sql.DB
}

// NewSQLiteSourceRepository creates a new SQLiteSourceRepository
func NewSQLiteSourceRepository(db *sql.DB) *SQLiteSourceRepository {
	return &SQLiteSourceRepository{db: db}
}

// Open returns the body of the named source. A missing source matches
// fs.ErrNotExist, like a missing data file.
func (r *SQLiteSourceRepository) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, `SELECT body FROM schedule_sources WHERE name = ?`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("source %s: %w", name, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to query source %s: %w", name, err)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

// SaveSource inserts or replaces the named source
func (r *SQLiteSourceRepository) SaveSource(ctx context.Context, importID uuid.UUID, name string, body []byte) error {
	const query = `
		INSERT INTO schedule_sources (name, body, import_id, imported_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			import_id = excluded.import_id,
			imported_at = excluded.imported_at
	`

	importedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx, query, name, body, importID.String(), importedAt); err != nil {
		return fmt.Errorf("failed to save source %s: %w", name, err)
	}
	return nil
}

// ListSources returns metadata for every stored source, ordered by name
func (r *SQLiteSourceRepository) ListSources(ctx context.Context) ([]models.ScheduleSource, error) {
	const query = `
		SELECT name, length(body), import_id, imported_at
		FROM schedule_sources
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []models.ScheduleSource
	for rows.Next() {
		var s models.ScheduleSource
		var importIDStr, importedAtStr string
		if err := rows.Scan(&s.Name, &s.Size, &importIDStr, &importedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}

		if id, err := uuid.Parse(importIDStr); err == nil {
			s.ImportID = id
		}
		if t := parseTimeString(&importedAtStr); t != nil {
			s.ImportedAt = *t
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

// parseTimeString converts an RFC3339 string to *time.Time
// Returns nil if the input is nil or empty
func parseTimeString(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
