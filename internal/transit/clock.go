package transit

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day on a 24-hour clock encoded as HHMM, e.g. 1345.
type Clock int

// NoTime is the start time of a service that has no recorded times.
const NoTime Clock = -1

// Valid reports whether c is a real HHMM value between 0000 and 2359.
func (c Clock) Valid() bool {
	return c >= 0 && c <= 2359 && c%100 <= 59
}

func (c Clock) String() string {
	if c == NoTime {
		return "----"
	}
	return fmt.Sprintf("%04d", int(c))
}

// ParseClock parses user or file input such as "0945" or "1300".
// Non-numeric input and values outside 0000-2359 (or with minutes above 59)
// are rejected with an error matching ErrInvalidTime.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return NoTime, fmt.Errorf("%w: %q", ErrTimeNotNumeric, s)
	}
	c := Clock(n)
	if !c.Valid() {
		return NoTime, fmt.Errorf("%w: %d", ErrTimeOutOfRange, n)
	}
	return c, nil
}
