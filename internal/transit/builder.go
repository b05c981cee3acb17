package transit

import "fmt"

// Builder assembles a Network. Loaders add stations first, then lines and
// their stops, then services; Build hands over the finished Network and
// leaves the Builder empty.
type Builder struct {
	net *Network
}

func NewBuilder() *Builder {
	return &Builder{net: newNetwork()}
}

// AddStation registers a station. A repeated name replaces the coordinates of
// the earlier entry and returns replaced=true.
func (b *Builder) AddStation(name string, x, y float64) (replaced bool) {
	if s, ok := b.net.stations[name]; ok {
		s.x, s.y = x, y
		return true
	}
	s := newStation(name, x, y)
	b.net.stations[name] = s
	b.net.stationOrder = append(b.net.stationOrder, s)
	return false
}

// AddLine registers an empty line. Line order decides tie-breaks in queries.
func (b *Builder) AddLine(name string) error {
	if _, ok := b.net.lines[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLine, name)
	}
	l := newSubwayLine(name)
	b.net.lines[name] = l
	b.net.lineOrder = append(b.net.lineOrder, l)
	return nil
}

// AddLineStation appends a stop to a line and records the line on the station.
func (b *Builder) AddLineStation(line, station string, km float64) error {
	l, ok := b.net.lines[line]
	if !ok {
		return unknownLine(line)
	}
	s, ok := b.net.stations[station]
	if !ok {
		return unknownStation(station)
	}
	l.addStation(station, km)
	s.addLine(line)
	return nil
}

// AddService appends a service with the given arrival times to a line.
// A service may have fewer times than the line has stops, never more.
func (b *Builder) AddService(line string, times []Clock) (*LineService, error) {
	l, ok := b.net.lines[line]
	if !ok {
		return nil, unknownLine(line)
	}
	if len(times) == 0 {
		return nil, ErrEmptyService
	}
	if len(times) > len(l.stops) {
		return nil, fmt.Errorf("%w: %d times for %d stations", ErrServiceTooLong, len(times), len(l.stops))
	}

	svc := newLineService(line)
	for _, t := range times {
		svc.addTime(t)
	}
	l.addLineService(svc)
	return svc, nil
}

// HasLine reports whether a line with this name was added.
func (b *Builder) HasLine(name string) bool {
	_, ok := b.net.lines[name]
	return ok
}

// Build returns the assembled Network. The Builder starts over afterwards, so
// the returned Network is never modified again.
func (b *Builder) Build() *Network {
	n := b.net
	b.net = newNetwork()
	return n
}
