package transit

import (
	"errors"
	"math"
	"testing"
)

// buildABC is the three-station network used throughout these tests:
// L1 runs A -> B -> C with one service at 1000/1010/1030.
func buildABC(t *testing.T) *Network {
	t.Helper()

	b := NewBuilder()
	b.AddStation("A", 0, 0)
	b.AddStation("B", 1, 0)
	b.AddStation("C", 2, 0)
	mustAddLine(t, b, "L1", []string{"A", "B", "C"}, []float64{0, 1, 3})
	mustAddService(t, b, "L1", 1000, 1010, 1030)
	return b.Build()
}

func mustAddLine(t *testing.T, b *Builder, name string, stations []string, km []float64) {
	t.Helper()
	if err := b.AddLine(name); err != nil {
		t.Fatalf("AddLine(%s): %v", name, err)
	}
	for i, st := range stations {
		if err := b.AddLineStation(name, st, km[i]); err != nil {
			t.Fatalf("AddLineStation(%s, %s): %v", name, st, err)
		}
	}
}

func mustAddService(t *testing.T, b *Builder, line string, times ...Clock) {
	t.Helper()
	if _, err := b.AddService(line, times); err != nil {
		t.Fatalf("AddService(%s): %v", line, err)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSameDirectionLine(t *testing.T) {
	n := buildABC(t)

	conn, err := n.SameDirectionLine("A", "C")
	if err != nil {
		t.Fatalf("SameDirectionLine(A, C): %v", err)
	}
	if conn.Line.Name() != "L1" {
		t.Errorf("line = %s, want L1", conn.Line.Name())
	}
	if !almostEqual(conn.Distance, 3.0) {
		t.Errorf("distance = %f, want 3.0", conn.Distance)
	}

	// Lines are directional: C -> A is not served by L1.
	if _, err := n.SameDirectionLine("C", "A"); !errors.Is(err, ErrNoDirectLine) {
		t.Errorf("SameDirectionLine(C, A) error = %v, want ErrNoDirectLine", err)
	}
	if _, err := n.SameDirectionLine("B", "B"); !errors.Is(err, ErrNoResult) {
		t.Errorf("SameDirectionLine(B, B) error = %v, want a no-result error", err)
	}
}

func TestSameDirectionLineFirstMatchWins(t *testing.T) {
	b := NewBuilder()
	b.AddStation("A", 0, 0)
	b.AddStation("B", 1, 0)
	mustAddLine(t, b, "slow", []string{"A", "B"}, []float64{0, 5})
	mustAddLine(t, b, "fast", []string{"A", "B"}, []float64{0, 2})
	n := b.Build()

	conn, err := n.SameDirectionLine("A", "B")
	if err != nil {
		t.Fatal(err)
	}
	if conn.Line.Name() != "slow" {
		t.Errorf("expected first loaded line to win, got %s", conn.Line.Name())
	}
}

func TestFindTrip(t *testing.T) {
	n := buildABC(t)

	trip, err := n.FindTrip("A", "C", 900)
	if err != nil {
		t.Fatalf("FindTrip(A, C, 900): %v", err)
	}
	if trip.Line.Name() != "L1" || trip.Departure != 1000 || trip.Arrival != 1030 {
		t.Errorf("trip = %s %v -> %v, want L1 1000 -> 1030", trip.Line.Name(), trip.Departure, trip.Arrival)
	}
	if trip.TrainID != "L1-1000" {
		t.Errorf("train ID = %s, want L1-1000", trip.TrainID)
	}
	if !almostEqual(trip.Distance, 3.0) {
		t.Errorf("distance = %f, want 3.0", trip.Distance)
	}

	_, err = n.FindTrip("A", "C", 1005)
	var noTrip *NoTripError
	if !errors.As(err, &noTrip) {
		t.Fatalf("FindTrip(A, C, 1005) error = %v, want *NoTripError", err)
	}
	if noTrip.Line != "L1" {
		t.Errorf("NoTripError.Line = %s, want L1", noTrip.Line)
	}
	if !errors.Is(err, ErrNoTripAfter) || !errors.Is(err, ErrNoResult) {
		t.Errorf("NoTripError should match ErrNoTripAfter and ErrNoResult")
	}

	if _, err := n.FindTrip("C", "A", 900); !errors.Is(err, ErrNoConnectingLine) {
		t.Errorf("FindTrip(C, A) error = %v, want ErrNoConnectingLine", err)
	}
}

func TestFindTripSkipsShortServices(t *testing.T) {
	b := NewBuilder()
	b.AddStation("A", 0, 0)
	b.AddStation("B", 1, 0)
	b.AddStation("C", 2, 0)
	mustAddLine(t, b, "L1", []string{"A", "B", "C"}, []float64{0, 1, 3})
	mustAddService(t, b, "L1", 1000, 1010)       // terminates at B
	mustAddService(t, b, "L1", 1100, 1110, 1130) // full run
	n := b.Build()

	trip, err := n.FindTrip("A", "C", 900)
	if err != nil {
		t.Fatal(err)
	}
	if trip.TrainID != "L1-1100" {
		t.Errorf("expected the full run, got %s", trip.TrainID)
	}

	// The short run still serves A -> B.
	trip, err = n.FindTrip("A", "B", 900)
	if err != nil {
		t.Fatal(err)
	}
	if trip.TrainID != "L1-1000" {
		t.Errorf("expected the short run for A -> B, got %s", trip.TrainID)
	}
}

func TestFindTripStopsAtFirstDirectionalLine(t *testing.T) {
	b := NewBuilder()
	b.AddStation("A", 0, 0)
	b.AddStation("B", 1, 0)
	mustAddLine(t, b, "early", []string{"A", "B"}, []float64{0, 1})
	mustAddService(t, b, "early", 800, 810)
	mustAddLine(t, b, "late", []string{"A", "B"}, []float64{0, 1})
	mustAddService(t, b, "late", 1500, 1510)
	n := b.Build()

	_, err := n.FindTrip("A", "B", 1200)
	var noTrip *NoTripError
	if !errors.As(err, &noTrip) || noTrip.Line != "early" {
		t.Errorf("FindTrip should stop at the first directional line, got %v", err)
	}
}

func TestFindTripNeverDepartsEarly(t *testing.T) {
	b := NewBuilder()
	for i, name := range []string{"A", "B", "C", "D"} {
		b.AddStation(name, float64(i), 0)
	}
	mustAddLine(t, b, "L", []string{"A", "B", "C", "D"}, []float64{0, 1, 2, 3})
	mustAddService(t, b, "L", 700, 710, 720, 730)
	mustAddService(t, b, "L", 800, 810)
	mustAddService(t, b, "L", 900, 910, 920, 930)
	mustAddService(t, b, "L", 1000, 1010, 1020)
	n := b.Build()

	for after := Clock(600); after <= 1100; after += 5 {
		trip, err := n.FindTrip("B", "C", after)
		if err != nil {
			if !errors.Is(err, ErrNoResult) {
				t.Fatalf("after %v: unexpected error %v", after, err)
			}
			continue
		}
		if trip.Departure < after {
			t.Errorf("after %v: departure %v is before the requested time", after, trip.Departure)
		}
		if trip.Service.Stops() <= 2 {
			t.Errorf("after %v: service %s does not reach C", after, trip.TrainID)
		}
	}
}

func TestNextServices(t *testing.T) {
	b := NewBuilder()
	b.AddStation("A", 0, 0)
	b.AddStation("B", 1, 0)
	b.AddStation("C", 2, 0)
	mustAddLine(t, b, "north", []string{"A", "B", "C"}, []float64{0, 1, 2})
	mustAddService(t, b, "north", 1000, 1010, 1020)
	mustAddService(t, b, "north", 1100, 1110, 1120)
	mustAddLine(t, b, "south", []string{"C", "B", "A"}, []float64{0, 1, 2})
	mustAddService(t, b, "south", 1000, 1005, 1010)
	n := b.Build()

	deps, err := n.NextServices("B", 1006)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 2 {
		t.Fatalf("expected one result per serving line, got %d", len(deps))
	}

	byLine := map[string]Departure{}
	for _, d := range deps {
		byLine[d.Line.Name()] = d
	}

	north := byLine["north"]
	if !north.Found || north.Time != 1010 || north.Service.TrainID() != "north-1000" {
		t.Errorf("north = %+v, want found at 1010 on north-1000", north)
	}

	south := byLine["south"]
	if south.Found || south.Service != nil {
		t.Errorf("south should have no service after 1006, got %+v", south)
	}

	// At exactly the scheduled time the service still counts.
	deps, _ = n.NextServices("B", 1110)
	for _, d := range deps {
		if d.Line.Name() == "north" && (!d.Found || d.Time != 1110) {
			t.Errorf("north at 1110 = %+v, want 1110", d)
		}
	}
}

func TestNextServicesIgnoresShortRuns(t *testing.T) {
	b := NewBuilder()
	b.AddStation("A", 0, 0)
	b.AddStation("B", 1, 0)
	mustAddLine(t, b, "L", []string{"A", "B"}, []float64{0, 1})
	mustAddService(t, b, "L", 1000)
	mustAddService(t, b, "L", 1100, 1110)
	n := b.Build()

	deps, err := n.NextServices("B", 900)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 1 || deps[0].Time != 1110 {
		t.Errorf("expected 1110 from the run reaching B, got %+v", deps)
	}
}

func TestUnknownEntities(t *testing.T) {
	n := buildABC(t)

	checks := []struct {
		name string
		err  error
		want error
	}{
		{"Station", func() error { _, err := n.Station("Nowhere"); return err }(), ErrUnknownStation},
		{"LinesServing", func() error { _, err := n.LinesServing("Nowhere"); return err }(), ErrUnknownStation},
		{"StationsOnLine", func() error { _, err := n.StationsOnLine("L9"); return err }(), ErrUnknownLine},
		{"SameDirectionLine", func() error { _, err := n.SameDirectionLine("A", "Nowhere"); return err }(), ErrUnknownStation},
		{"NextServices", func() error { _, err := n.NextServices("Nowhere", 900); return err }(), ErrUnknownStation},
		{"FindTrip", func() error { _, err := n.FindTrip("Nowhere", "A", 900); return err }(), ErrUnknownStation},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !errors.Is(c.err, c.want) {
				t.Errorf("error = %v, want %v", c.err, c.want)
			}
			if !errors.Is(c.err, ErrUnknownEntity) {
				t.Errorf("error %v should match ErrUnknownEntity", c.err)
			}
			if errors.Is(c.err, ErrNoResult) {
				t.Errorf("unknown entity must not be reported as no result")
			}
		})
	}
}

func TestStationMembership(t *testing.T) {
	b := NewBuilder()
	b.AddStation("A", 0, 0)
	b.AddStation("B", 1, 0)
	b.AddStation("C", 2, 0)
	mustAddLine(t, b, "L1", []string{"A", "B"}, []float64{0, 1})
	mustAddLine(t, b, "L2", []string{"B", "C"}, []float64{0, 1})
	n := b.Build()

	want := map[string][]string{
		"A": {"L1"},
		"B": {"L1", "L2"},
		"C": {"L2"},
	}
	for station, lines := range want {
		s, err := n.Station(station)
		if err != nil {
			t.Fatal(err)
		}
		got := s.Lines()
		if len(got) != len(lines) {
			t.Errorf("%s lines = %v, want %v", station, got, lines)
			continue
		}
		for _, l := range lines {
			if !s.ServedBy(l) {
				t.Errorf("%s should be served by %s", station, l)
			}
		}
	}

	serving, err := n.LinesServing("B")
	if err != nil {
		t.Fatal(err)
	}
	if len(serving) != 2 {
		t.Errorf("LinesServing(B) returned %d lines, want 2", len(serving))
	}
}

func TestStationsOnLineOrder(t *testing.T) {
	n := buildABC(t)

	stations, err := n.StationsOnLine("L1")
	if err != nil {
		t.Fatal(err)
	}
	names := []string{}
	for _, s := range stations {
		names = append(names, s.Name())
	}
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "C" {
		t.Errorf("StationsOnLine(L1) = %v, want [A B C]", names)
	}

	l, _ := n.Line("L1")
	prev := -1.0
	for i, st := range l.Stops() {
		if l.StationIndex(st.Station) != i {
			t.Errorf("StationIndex(%s) = %d, want %d", st.Station, l.StationIndex(st.Station), i)
		}
		if st.Distance < prev {
			t.Errorf("distance decreased at %s", st.Station)
		}
		prev = st.Distance
	}
}

func TestStationsSorted(t *testing.T) {
	b := NewBuilder()
	b.AddStation("Zara", 0, 0)
	b.AddStation("Brenta", 1, 0)
	b.AddStation("Duomo", 2, 0)
	n := b.Build()

	loaded := n.Stations()
	if loaded[0].Name() != "Zara" {
		t.Errorf("Stations() should keep load order, got %s first", loaded[0].Name())
	}

	sorted := n.StationsSorted()
	want := []string{"Brenta", "Duomo", "Zara"}
	for i, s := range sorted {
		if s.Name() != want[i] {
			t.Errorf("StationsSorted()[%d] = %s, want %s", i, s.Name(), want[i])
		}
	}
}

func TestDuplicateStationOnLine(t *testing.T) {
	b := NewBuilder()
	b.AddStation("A", 0, 0)
	b.AddStation("B", 1, 0)
	mustAddLine(t, b, "loop", []string{"A", "B", "A"}, []float64{0, 1, 2})
	n := b.Build()

	l, _ := n.Line("loop")
	if len(l.Stops()) != 3 {
		t.Errorf("duplicate stops should be kept, got %d stops", len(l.Stops()))
	}
	if l.StationIndex("A") != 0 {
		t.Errorf("StationIndex should return the first occurrence")
	}
	s, _ := n.Station("A")
	if len(s.Lines()) != 1 {
		t.Errorf("membership should stay a set, got %v", s.Lines())
	}
	// B -> A uses the first A, which comes before B.
	if _, _, ok := l.Runs("B", "A"); ok {
		t.Errorf("Runs(B, A) should be false with first-occurrence lookup")
	}
}
