package static

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/metrics"
	"github.com/Holy-Spoon/Subway-System-Planner/internal/transit"
)

// ErrEmptySnapshot is returned by Reload when the new load produced no
// stations while the current snapshot has some; the current one is kept.
var ErrEmptySnapshot = errors.New("reload produced an empty network")

// Snapshot is one immutable load of the schedule sources.
type Snapshot struct {
	ID       uuid.UUID
	LoadedAt time.Time
	Network  *transit.Network
	Report   *Report
}

// Store holds the current Snapshot. Readers never block; a reload builds a
// complete new snapshot and swaps it in.
type Store struct {
	loader   *Loader
	reloadMu sync.Mutex
	current  atomic.Pointer[Snapshot]
}

func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// Current returns the snapshot in use, or nil before the first load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload loads all sources again and makes the result current.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	network, report, err := s.loader.Load(ctx)
	if err != nil {
		metrics.SnapshotRejected()
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	prev := s.current.Load()
	if prev != nil && report.Stations == 0 && prev.Report.Stations > 0 {
		metrics.SnapshotRejected()
		log.Printf("Warning: keeping snapshot %s, reload found no stations (%d load errors)", prev.ID, len(report.Errors))
		return prev, ErrEmptySnapshot
	}

	snap := &Snapshot{
		ID:       uuid.New(),
		LoadedAt: time.Now().UTC(),
		Network:  network,
		Report:   report,
	}
	s.current.Store(snap)

	metrics.SnapshotLoaded(report.Stations, report.Lines, report.Services, len(report.Errors))
	log.Printf("Snapshot %s ready: %d stations, %d lines, %d services, %d load errors",
		snap.ID, report.Stations, report.Lines, report.Services, len(report.Errors))
	return snap, nil
}

// Watch reloads every interval and whenever a signal arrives on trigger, until
// ctx is done. A zero interval disables the timer; a nil trigger is never
// ready. Failed reloads are logged and the current snapshot stays in use.
func (s *Store) Watch(ctx context.Context, interval time.Duration, trigger <-chan os.Signal) {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-tick:
			log.Println("Running scheduled schedule reload...")
		case sig := <-trigger:
			log.Printf("%v received, reloading schedule...", sig)
		case <-ctx.Done():
			log.Println("Schedule reload loop stopped")
			return
		}
		if _, err := s.Reload(ctx); err != nil {
			log.Printf("Warning: reload failed: %v", err)
		}
	}
}
