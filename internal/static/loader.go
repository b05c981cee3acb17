package static

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/transit"
)

// Options tune how source records are interpreted.
type Options struct {
	// NameSeparator joins the whitespace-separated tokens of a station name.
	NameSeparator string
}

// Loader reads the schedule sources and builds a transit.Network.
type Loader struct {
	src  Source
	opts Options
}

func NewLoader(src Source, opts Options) *Loader {
	return &Loader{src: src, opts: opts}
}

// Load reads stations, then the line index with each line's stations, then
// each line's services. Problems with a single record or source are recorded
// in the Report and skipped; only cancellation of ctx aborts the load.
func (l *Loader) Load(ctx context.Context) (*transit.Network, *Report, error) {
	b := transit.NewBuilder()
	report := &Report{}

	l.loadStations(ctx, b, report)
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}
	log.Printf("Loaded %d stations", report.Stations)

	lines := l.loadLines(ctx, b, report)
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}
	log.Printf("Loaded %d subway lines", report.Lines)

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		l.loadServices(ctx, b, line, report)
	}
	log.Printf("Loaded %d line services", report.Services)

	return b.Build(), report, nil
}

// read opens and fully consumes one source through parse.
func (l *Loader) read(ctx context.Context, name string, report *Report, parse func(io.Reader)) {
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		report.sourceFailed(name, err)
		return
	}
	defer rc.Close()

	parse(rc)
}

func (l *Loader) loadStations(ctx context.Context, b *transit.Builder, report *Report) {
	l.read(ctx, StationsSource, report, func(r io.Reader) {
		records, errs := parseStations(r, StationsSource, l.opts.NameSeparator)
		report.add(errs...)

		for _, rec := range records {
			if b.AddStation(rec.Name, rec.X, rec.Y) {
				log.Printf("Warning: %s: station %q listed more than once, keeping the last coordinates", StationsSource, rec.Name)
				continue
			}
			report.Stations++
		}
	})
}

func (l *Loader) loadLines(ctx context.Context, b *transit.Builder, report *Report) []string {
	var names []string
	l.read(ctx, LinesSource, report, func(r io.Reader) {
		var errs []*LoadError
		names, errs = parseLineIndex(r, LinesSource)
		report.add(errs...)
	})

	var loaded []string
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return loaded
		}
		if err := b.AddLine(name); err != nil {
			report.add(&LoadError{Source: LinesSource, Err: err})
			continue
		}
		report.Lines++
		loaded = append(loaded, name)
		l.loadLineStations(ctx, b, name, report)
	}
	return loaded
}

// loadLineStations fills in one line's stops. A line whose stations source is
// missing stays registered with no stops.
func (l *Loader) loadLineStations(ctx context.Context, b *transit.Builder, line string, report *Report) {
	source := LineStationsSource(line)
	l.read(ctx, source, report, func(r io.Reader) {
		records, errs := parseLineStations(r, source, l.opts.NameSeparator)
		report.add(errs...)

		for _, rec := range records {
			if err := b.AddLineStation(line, rec.Station, rec.Distance); err != nil {
				report.add(&LoadError{Source: source, Line: rec.Line, Err: err})
			}
		}
	})
}

func (l *Loader) loadServices(ctx context.Context, b *transit.Builder, line string, report *Report) {
	source := LineServicesSource(line)
	l.read(ctx, source, report, func(r io.Reader) {
		records, errs := parseServices(r, source)
		report.add(errs...)

		for _, rec := range records {
			if _, err := b.AddService(line, rec.Times); err != nil {
				report.add(&LoadError{Source: source, Line: rec.Line, Err: fmt.Errorf("%w: %w", ErrMalformedRecord, err)})
				continue
			}
			report.Services++
		}
	})
}
