package static

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"testing/fstest"
	"time"
)

func TestStoreReload(t *testing.T) {
	fsys := milanoFS()
	store := NewStore(NewLoader(NewFSSource(fsys), Options{}))

	if store.Current() != nil {
		t.Fatal("Current() should be nil before the first load")
	}

	first, err := store.Reload(context.Background())
	if err != nil {
		t.Fatalf("first Reload: %v", err)
	}
	if store.Current() != first {
		t.Error("Current() should return the loaded snapshot")
	}

	fsys["stations.data"] = &fstest.MapFile{Data: []byte("Zara 10.0 20.0\nDuomo 12.0 22.0\nBrenta 13.0 23.0\nLoreto 14 24\n")}
	second, err := store.Reload(context.Background())
	if err != nil {
		t.Fatalf("second Reload: %v", err)
	}
	if second.ID == first.ID {
		t.Error("each reload should get a new snapshot ID")
	}
	if _, err := second.Network.Station("Loreto"); err != nil {
		t.Errorf("new snapshot should contain Loreto: %v", err)
	}
	// The old snapshot is untouched.
	if _, err := first.Network.Station("Loreto"); err == nil {
		t.Error("old snapshot must not change after reload")
	}
}

func TestStoreKeepsSnapshotWhenReloadIsEmpty(t *testing.T) {
	fsys := milanoFS()
	store := NewStore(NewLoader(NewFSSource(fsys), Options{}))

	first, err := store.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	delete(fsys, "stations.data")
	kept, err := store.Reload(context.Background())
	if !errors.Is(err, ErrEmptySnapshot) {
		t.Fatalf("Reload error = %v, want ErrEmptySnapshot", err)
	}
	if kept != first || store.Current() != first {
		t.Error("the previous snapshot should stay current")
	}
}

func TestStoreWatchReloadsOnSignal(t *testing.T) {
	fsys := milanoFS()
	store := NewStore(NewLoader(NewFSSource(fsys), Options{}))
	first, err := store.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	trigger := make(chan os.Signal)
	done := make(chan struct{})
	go func() {
		store.Watch(ctx, 0, trigger)
		close(done)
	}()

	// The unbuffered send returns once Watch has taken the signal; the
	// second send cannot be taken until the first reload has finished.
	trigger <- syscall.SIGHUP
	trigger <- syscall.SIGHUP
	cancel()
	<-done

	if store.Current() == first {
		t.Error("Watch should have replaced the snapshot")
	}
}

func TestStoreWatchInterval(t *testing.T) {
	store := NewStore(NewLoader(NewFSSource(milanoFS()), Options{}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go store.Watch(ctx, 10*time.Millisecond, nil)

	for store.Current() == nil {
		select {
		case <-ctx.Done():
			t.Fatal("no snapshot loaded by the interval reload")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
