package transit

import "sort"

// Network is an immutable snapshot of stations, lines and their services.
// It is produced by a Builder and is safe for concurrent readers.
//
// Every query is a linear scan over lines or stations, which is fine for
// networks of tens of lines. A much larger network would want a
// station -> (line, position) index built alongside the line order.
type Network struct {
	stations     map[string]*Station
	stationOrder []*Station
	lines        map[string]*SubwayLine
	lineOrder    []*SubwayLine
}

func newNetwork() *Network {
	return &Network{
		stations: make(map[string]*Station),
		lines:    make(map[string]*SubwayLine),
	}
}

// Connection is the result of SameDirectionLine.
type Connection struct {
	Line     *SubwayLine
	From     string
	To       string
	Distance float64
}

// Departure is the next service of one line at a station.
// Found is false when the line has no service at or after the requested time;
// Service is nil in that case.
type Departure struct {
	Line    *SubwayLine
	Service *LineService
	Time    Clock
	Found   bool
}

// Trip is a single-line journey found by FindTrip.
type Trip struct {
	Line      *SubwayLine
	Service   *LineService
	TrainID   string
	From      string
	To        string
	Departure Clock
	Arrival   Clock
	Distance  float64
}

// Stations returns all stations in the order they were loaded.
func (n *Network) Stations() []*Station {
	out := make([]*Station, len(n.stationOrder))
	copy(out, n.stationOrder)
	return out
}

// StationsSorted returns all stations ordered by name.
func (n *Network) StationsSorted() []*Station {
	out := n.Stations()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Lines returns all lines in load order. This is also the order in which
// SameDirectionLine and FindTrip try candidate lines.
func (n *Network) Lines() []*SubwayLine {
	out := make([]*SubwayLine, len(n.lineOrder))
	copy(out, n.lineOrder)
	return out
}

// StationNames returns every station name, sorted.
func (n *Network) StationNames() []string {
	names := make([]string, 0, len(n.stations))
	for name := range n.stations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LineNames returns every line name, sorted.
func (n *Network) LineNames() []string {
	names := make([]string, 0, len(n.lines))
	for name := range n.lines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *Network) Station(name string) (*Station, error) {
	s, ok := n.stations[name]
	if !ok {
		return nil, unknownStation(name)
	}
	return s, nil
}

func (n *Network) Line(name string) (*SubwayLine, error) {
	l, ok := n.lines[name]
	if !ok {
		return nil, unknownLine(name)
	}
	return l, nil
}

// LinesServing returns the lines that stop at the named station.
func (n *Network) LinesServing(station string) ([]*SubwayLine, error) {
	s, err := n.Station(station)
	if err != nil {
		return nil, err
	}
	out := make([]*SubwayLine, 0, len(s.lines))
	for _, name := range s.lines {
		out = append(out, n.lines[name])
	}
	return out, nil
}

// StationsOnLine returns the stations of the named line in travel order.
func (n *Network) StationsOnLine(line string) ([]*Station, error) {
	l, err := n.Line(line)
	if err != nil {
		return nil, err
	}
	out := make([]*Station, 0, len(l.stops))
	for _, st := range l.stops {
		out = append(out, n.stations[st.Station])
	}
	return out, nil
}

// SameDirectionLine returns the first line, in load order, on which a train
// goes from one station to the other, and the distance between them.
func (n *Network) SameDirectionLine(from, to string) (Connection, error) {
	if _, err := n.Station(from); err != nil {
		return Connection{}, err
	}
	if _, err := n.Station(to); err != nil {
		return Connection{}, err
	}

	for _, l := range n.lineOrder {
		fromIdx, toIdx, ok := l.Runs(from, to)
		if !ok {
			continue
		}
		return Connection{
			Line:     l,
			From:     from,
			To:       to,
			Distance: l.stops[toIdx].Distance - l.stops[fromIdx].Distance,
		}, nil
	}
	return Connection{}, ErrNoDirectLine
}

// NextServices returns, for every line serving the station, the first service
// in schedule order whose time at the station is at or after the given time.
// Services that end before reaching the station are ignored.
func (n *Network) NextServices(station string, after Clock) ([]Departure, error) {
	s, err := n.Station(station)
	if err != nil {
		return nil, err
	}

	departures := make([]Departure, 0, len(s.lines))
	for _, name := range s.lines {
		l := n.lines[name]
		idx := l.StationIndex(station)
		if idx == NotFound {
			continue
		}

		d := Departure{Line: l, Time: NoTime}
		for _, svc := range l.services {
			t, ok := svc.TimeAt(idx)
			if ok && t >= after {
				d.Service = svc
				d.Time = t
				d.Found = true
				break
			}
		}
		departures = append(departures, d)
	}
	return departures, nil
}

// FindTrip looks for the first line, in load order, running from one station
// to the other, then for the first service on it that reaches the destination
// and leaves the origin at or after the given time.
//
// Only the first line running in the right direction is searched. If it has
// no suitable service the result is a *NoTripError even when a later line
// would have one.
func (n *Network) FindTrip(from, to string, after Clock) (Trip, error) {
	if _, err := n.Station(from); err != nil {
		return Trip{}, err
	}
	if _, err := n.Station(to); err != nil {
		return Trip{}, err
	}

	for _, l := range n.lineOrder {
		fromIdx, toIdx, ok := l.Runs(from, to)
		if !ok {
			continue
		}

		for _, svc := range l.services {
			arrive, ok := svc.TimeAt(toIdx)
			if !ok {
				continue
			}
			depart, _ := svc.TimeAt(fromIdx)
			if depart < after {
				continue
			}
			return Trip{
				Line:      l,
				Service:   svc,
				TrainID:   svc.TrainID(),
				From:      from,
				To:        to,
				Departure: depart,
				Arrival:   arrive,
				Distance:  l.stops[toIdx].Distance - l.stops[fromIdx].Distance,
			}, nil
		}
		return Trip{}, &NoTripError{Line: l.name, After: after}
	}
	return Trip{}, ErrNoConnectingLine
}
