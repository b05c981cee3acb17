package transit

import "fmt"

// NotFound is the position returned for a station that is not on a line.
const NotFound = -1

// Stop is one position on a SubwayLine.
type Stop struct {
	Station  string
	Distance float64 // km from the first station of the line
}

// SubwayLine is one direction of a metro route. Stop order is the direction
// of travel; the opposite direction is a separate line (e.g. "M1-north" and
// "M1-south").
type SubwayLine struct {
	name     string
	stops    []Stop
	services []*LineService
}

func newSubwayLine(name string) *SubwayLine {
	return &SubwayLine{name: name}
}

func (l *SubwayLine) Name() string { return l.name }

// addStation appends a stop. Duplicates are kept as separate positions.
func (l *SubwayLine) addStation(station string, km float64) {
	l.stops = append(l.stops, Stop{Station: station, Distance: km})
}

// addLineService appends a service. Services keep file order, which the data
// is expected to list chronologically.
func (l *SubwayLine) addLineService(s *LineService) {
	l.services = append(l.services, s)
}

// StationIndex returns the first position of station on the line, or NotFound.
func (l *SubwayLine) StationIndex(station string) int {
	for i, st := range l.stops {
		if st.Station == station {
			return i
		}
	}
	return NotFound
}

// DistanceFromStart returns the cumulative distance recorded for station.
func (l *SubwayLine) DistanceFromStart(station string) (float64, bool) {
	i := l.StationIndex(station)
	if i == NotFound {
		return 0, false
	}
	return l.stops[i].Distance, true
}

// Runs reports whether a train on this line can go from one station to the
// other: both must be on the line and from must come strictly first.
func (l *SubwayLine) Runs(from, to string) (fromIdx, toIdx int, ok bool) {
	fromIdx = l.StationIndex(from)
	toIdx = l.StationIndex(to)
	ok = fromIdx != NotFound && toIdx != NotFound && fromIdx < toIdx
	return fromIdx, toIdx, ok
}

// Stations returns the station names in travel order.
func (l *SubwayLine) Stations() []string {
	out := make([]string, len(l.stops))
	for i, st := range l.stops {
		out[i] = st.Station
	}
	return out
}

func (l *SubwayLine) Stops() []Stop {
	out := make([]Stop, len(l.stops))
	copy(out, l.stops)
	return out
}

func (l *SubwayLine) Services() []*LineService {
	out := make([]*LineService, len(l.services))
	copy(out, l.services)
	return out
}

// Length is the distance recorded at the last stop.
func (l *SubwayLine) Length() float64 {
	if len(l.stops) == 0 {
		return 0
	}
	return l.stops[len(l.stops)-1].Distance
}

func (l *SubwayLine) String() string {
	return fmt.Sprintf("%s (%d stations, %d services)", l.name, len(l.stops), len(l.services))
}
