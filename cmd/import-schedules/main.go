package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/static"
	"github.com/Holy-Spoon/Subway-System-Planner/models"
	"github.com/Holy-Spoon/Subway-System-Planner/repository"
)

// sourceWriter is a schedule source repository that can be written to
type sourceWriter interface {
	SaveSource(ctx context.Context, importID uuid.UUID, name string, body []byte) error
	ListSources(ctx context.Context) ([]models.ScheduleSource, error)
}

func main() {
	// Command line flags
	dataDir := flag.String("data-dir", "data", "Directory containing stations.data, subway-lines.data and per-line files")
	dbPath := flag.String("db", "data/schedules.db", "Path to SQLite database")
	postgresURL := flag.String("postgres", "", "If set, import into this Postgres database instead of SQLite")
	flag.Parse()

	ctx := context.Background()

	var repo sourceWriter
	if *postgresURL != "" {
		pg, err := repository.NewPostgresSourceRepository(ctx, *postgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		log.Println("Connected to Postgres")
		repo = pg
	} else {
		database, err := repository.NewSQLiteDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		log.Printf("Connected to database: %s", *dbPath)
		repo = repository.NewSQLiteSourceRepository(database.GetDB())
	}

	src := static.NewDirSource(*dataDir)
	names, err := static.SourceNames(ctx, src)
	if err != nil {
		log.Fatalf("Failed to read line index: %v", err)
	}

	importID := uuid.New()
	log.Printf("Import %s: %d sources from %s", importID, len(names), *dataDir)

	imported := 0
	for _, name := range names {
		body, err := readSource(ctx, src, name)
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: %s not found, skipping", name)
			continue
		}
		if err != nil {
			log.Printf("ERROR reading %s: %v", name, err)
			continue
		}
		if err := repo.SaveSource(ctx, importID, name, body); err != nil {
			log.Printf("ERROR saving %s: %v", name, err)
			continue
		}
		imported++
	}

	log.Printf("Imported %d of %d sources", imported, len(names))

	stored, err := repo.ListSources(ctx)
	if err != nil {
		log.Fatalf("Failed to list stored sources: %v", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 5, 3, 3, ' ', 0)
	fmt.Fprintln(w, "# Source \t bytes \t import")
	for _, s := range stored {
		marker := ""
		if s.ImportID != importID {
			marker = " (stale)"
		}
		fmt.Fprintf(w, "%s \t %d \t %s%s\n", s.Name, s.Size, s.ImportedAt.Format(time.RFC3339), marker)
	}
	w.Flush()

	log.Println("Import complete!")
}

func readSource(ctx context.Context, src static.Source, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
