package repository

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func setupSQLiteRepository(t *testing.T) *SQLiteSourceRepository {
	t.Helper()

	sqliteDB, err := NewSQLiteDB(filepath.Join(t.TempDir(), "schedules.db"))
	if err != nil {
		t.Fatalf("Failed to open SQLite database: %v", err)
	}
	t.Cleanup(func() { sqliteDB.Close() })

	if err := sqliteDB.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	// Schema creation must be repeatable
	if err := sqliteDB.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}

	return NewSQLiteSourceRepository(sqliteDB.GetDB())
}

func TestSQLiteSaveAndOpen(t *testing.T) {
	repo := setupSQLiteRepository(t)
	ctx := context.Background()
	importID := uuid.New()

	if err := repo.SaveSource(ctx, importID, "stations.data", []byte("Zara 1 2\n")); err != nil {
		t.Fatalf("SaveSource failed: %v", err)
	}

	rc, err := repo.Open(ctx, "stations.data")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	body, _ := io.ReadAll(rc)
	if string(body) != "Zara 1 2\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSQLiteSaveReplaces(t *testing.T) {
	repo := setupSQLiteRepository(t)
	ctx := context.Background()

	first, second := uuid.New(), uuid.New()
	repo.SaveSource(ctx, first, "subway-lines.data", []byte("M1-north\n"))
	if err := repo.SaveSource(ctx, second, "subway-lines.data", []byte("M1-north\nM1-south\n")); err != nil {
		t.Fatalf("SaveSource (replace) failed: %v", err)
	}

	sources, err := repo.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if sources[0].ImportID != second {
		t.Errorf("ImportID = %s, want %s", sources[0].ImportID, second)
	}
	if sources[0].Size != len("M1-north\nM1-south\n") {
		t.Errorf("Size = %d", sources[0].Size)
	}
	if sources[0].ImportedAt.IsZero() {
		t.Error("ImportedAt is zero")
	}
}

func TestSQLiteOpenMissing(t *testing.T) {
	repo := setupSQLiteRepository(t)

	_, err := repo.Open(context.Background(), "M9-services.data")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open of a missing source error = %v, want fs.ErrNotExist", err)
	}
}

func TestParseTimeString(t *testing.T) {
	if parseTimeString(nil) != nil {
		t.Error("nil input should give nil")
	}
	empty := ""
	if parseTimeString(&empty) != nil {
		t.Error("empty input should give nil")
	}
	bad := "yesterday"
	if parseTimeString(&bad) != nil {
		t.Error("invalid input should give nil")
	}
	good := "2025-01-01T10:00:00Z"
	if ts := parseTimeString(&good); ts == nil || ts.Hour() != 10 {
		t.Errorf("parseTimeString(%q) = %v", good, ts)
	}
}
