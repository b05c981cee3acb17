package static

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/resty.v1"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/config"
	"github.com/Holy-Spoon/Subway-System-Planner/repository"
)

// Logical source names. Per-line sources are keyed by the line name.
const (
	StationsSource = "stations.data"
	LinesSource    = "subway-lines.data"
)

func LineStationsSource(line string) string { return line + "-stations.data" }
func LineServicesSource(line string) string { return line + "-services.data" }

// Source returns the contents of a named schedule source. A source that does
// not exist returns an error matching fs.ErrNotExist.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirSource reads sources as files from a directory.
type DirSource struct {
	fsys fs.FS
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir)}
}

// NewFSSource reads sources from any fs.FS, e.g. an embed.FS or fstest.MapFS.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

func (s *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fsys.Open(name)
}

// HTTPSource fetches sources from a base URL, one request per source name.
type HTTPSource struct {
	client *resty.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	client := resty.New().
		SetHostURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "text/plain")
	return &HTTPSource{client: client}
}

func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := s.client.R().SetContext(ctx).Get("/" + url.PathEscape(name))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("source %s: %w", name, fs.ErrNotExist)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", name, resp.Status())
	}
	return io.NopCloser(bytes.NewReader(resp.Body())), nil
}

// OpenSource builds the Source selected by cfg. The returned close function
// releases database connections and is never nil.
func OpenSource(ctx context.Context, cfg *config.Config) (Source, func(), error) {
	switch cfg.ScheduleSource {
	case config.SourceDir:
		return NewDirSource(cfg.DataDir), func() {}, nil

	case config.SourceHTTP:
		return NewHTTPSource(cfg.ScheduleBaseURL, cfg.HTTPTimeout), func() {}, nil

	case config.SourceSQLite:
		sqliteDB, err := repository.NewSQLiteDB(cfg.SQLiteDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open schedule database: %w", err)
		}
		repo := repository.NewSQLiteSourceRepository(sqliteDB.GetDB())
		return repo, func() { sqliteDB.Close() }, nil

	case config.SourcePostgres:
		repo, err := repository.NewPostgresSourceRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to schedule database: %w", err)
		}
		return repo, repo.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown schedule source %q", cfg.ScheduleSource)
}

// SourceNames lists every source the loader would read from src: the station
// and line indexes followed by the per-line files of each indexed line.
func SourceNames(ctx context.Context, src Source) ([]string, error) {
	rc, err := src.Open(ctx, LinesSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", LinesSource, err)
	}
	defer rc.Close()

	lines, errs := parseLineIndex(rc, LinesSource)
	for _, e := range errs {
		log.Printf("Warning: %v", e)
	}

	names := []string{StationsSource, LinesSource}
	for _, line := range lines {
		names = append(names, LineStationsSource(line), LineServicesSource(line))
	}
	return names, nil
}
