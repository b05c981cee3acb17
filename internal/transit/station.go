package transit

import "fmt"

// Station is a named point on the network map.
// Line membership is kept as line names; the Network resolves them.
type Station struct {
	name  string
	x, y  float64
	lines []string
	onSet map[string]struct{}
}

func newStation(name string, x, y float64) *Station {
	return &Station{
		name:  name,
		x:     x,
		y:     y,
		onSet: make(map[string]struct{}),
	}
}

func (s *Station) Name() string { return s.name }
func (s *Station) X() float64   { return s.x }
func (s *Station) Y() float64   { return s.y }

// addLine records that line serves this station. Adding a line twice is a no-op.
func (s *Station) addLine(line string) {
	if _, ok := s.onSet[line]; ok {
		return
	}
	s.onSet[line] = struct{}{}
	s.lines = append(s.lines, line)
}

// Lines returns the names of the lines serving this station, in the order the
// lines were loaded. The order says nothing about the route.
func (s *Station) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// ServedBy reports whether the named line stops here.
func (s *Station) ServedBy(line string) bool {
	_, ok := s.onSet[line]
	return ok
}

func (s *Station) String() string {
	return fmt.Sprintf("%s (%.2f, %.2f)", s.name, s.x, s.y)
}
