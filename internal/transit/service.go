package transit

import "fmt"

// LineService is one scheduled run of a train along a SubwayLine.
// The i-th time is the arrival at the i-th station of the line. A run may end
// before the last station but never skips one.
type LineService struct {
	line    string
	trainID string
	times   []Clock
}

func newLineService(line string) *LineService {
	return &LineService{line: line}
}

// addTime appends the arrival at the next station. The first time added fixes
// the train ID. Values are not validated here.
func (s *LineService) addTime(t Clock) {
	s.times = append(s.times, t)
	if s.trainID == "" {
		s.trainID = fmt.Sprintf("%s-%d", s.line, int(t))
	}
}

// Line returns the name of the line this service runs on.
func (s *LineService) Line() string { return s.line }

// TrainID returns "<line>-<first time>", or "" before any time is added.
func (s *LineService) TrainID() string { return s.trainID }

// StartTime returns the first recorded time, or NoTime.
func (s *LineService) StartTime() Clock {
	if len(s.times) == 0 {
		return NoTime
	}
	return s.times[0]
}

// TimeAt returns the time at station position i. ok is false when the service
// terminates before that position.
func (s *LineService) TimeAt(i int) (t Clock, ok bool) {
	if i < 0 || i >= len(s.times) {
		return NoTime, false
	}
	return s.times[i], true
}

// Stops is the number of stations this service reaches.
func (s *LineService) Stops() int { return len(s.times) }

func (s *LineService) Times() []Clock {
	out := make([]Clock, len(s.times))
	copy(out, s.times)
	return out
}

func (s *LineService) String() string {
	if s.trainID == "" {
		return s.line + "-unknownStart"
	}
	return fmt.Sprintf("%s (%d stops)", s.trainID, len(s.times))
}
