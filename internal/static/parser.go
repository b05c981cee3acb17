package static

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/transit"
)

// stationRecord is one line of stations.data: "<name tokens...> <x> <y>".
type stationRecord struct {
	Name string
	X, Y float64
}

// lineStationRecord is one line of <line>-stations.data: "<name tokens...> <km>".
type lineStationRecord struct {
	Line     int
	Station  string
	Distance float64
}

// serviceRecord is one line of <line>-services.data: HHMM times in stop order.
type serviceRecord struct {
	Line  int
	Times []transit.Clock
}

// eachRecord calls fn with the fields of every non-blank line in r.
func eachRecord(r io.Reader, source string, fn func(line int, fields []string)) *LoadError {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		fn(n, fields)
	}
	if err := scanner.Err(); err != nil {
		return &LoadError{Source: source, Line: n + 1, Err: fmt.Errorf("%w: %w", ErrUnreadableSource, err)}
	}
	return nil
}

func malformed(source string, line int, format string, args ...any) *LoadError {
	return &LoadError{
		Source: source,
		Line:   line,
		Err:    fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...)),
	}
}

func parseStations(r io.Reader, source, sep string) ([]stationRecord, []*LoadError) {
	var records []stationRecord
	var errs []*LoadError

	readErr := eachRecord(r, source, func(line int, fields []string) {
		if len(fields) < 3 {
			errs = append(errs, malformed(source, line, "expected <name> <x> <y>, got %d fields", len(fields)))
			return
		}
		x, err := strconv.ParseFloat(fields[len(fields)-2], 64)
		if err != nil {
			errs = append(errs, malformed(source, line, "invalid x coordinate %q", fields[len(fields)-2]))
			return
		}
		y, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			errs = append(errs, malformed(source, line, "invalid y coordinate %q", fields[len(fields)-1]))
			return
		}
		records = append(records, stationRecord{
			Name: strings.Join(fields[:len(fields)-2], sep),
			X:    x,
			Y:    y,
		})
	})
	if readErr != nil {
		errs = append(errs, readErr)
	}
	return records, errs
}

// parseLineIndex reads subway-lines.data. Line names may not contain
// whitespace, so the whole trimmed line is the name.
func parseLineIndex(r io.Reader, source string) ([]string, []*LoadError) {
	var names []string
	var errs []*LoadError

	readErr := eachRecord(r, source, func(line int, fields []string) {
		if len(fields) != 1 {
			errs = append(errs, malformed(source, line, "line name %q contains whitespace", strings.Join(fields, " ")))
			return
		}
		names = append(names, fields[0])
	})
	if readErr != nil {
		errs = append(errs, readErr)
	}
	return names, errs
}

func parseLineStations(r io.Reader, source, sep string) ([]lineStationRecord, []*LoadError) {
	var records []lineStationRecord
	var errs []*LoadError

	readErr := eachRecord(r, source, func(line int, fields []string) {
		if len(fields) < 2 {
			errs = append(errs, malformed(source, line, "expected <station> <distance>, got %d fields", len(fields)))
			return
		}
		km, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			errs = append(errs, malformed(source, line, "invalid distance %q", fields[len(fields)-1]))
			return
		}
		records = append(records, lineStationRecord{
			Line:     line,
			Station:  strings.Join(fields[:len(fields)-1], sep),
			Distance: km,
		})
	})
	if readErr != nil {
		errs = append(errs, readErr)
	}
	return records, errs
}

func parseServices(r io.Reader, source string) ([]serviceRecord, []*LoadError) {
	var records []serviceRecord
	var errs []*LoadError

	readErr := eachRecord(r, source, func(line int, fields []string) {
		times := make([]transit.Clock, 0, len(fields))
		for i, f := range fields {
			t, err := transit.ParseClock(f)
			if err != nil {
				errs = append(errs, &LoadError{
					Source: source,
					Line:   line,
					Err:    fmt.Errorf("%w: stop %d: %w", ErrMalformedRecord, i+1, err),
				})
				return
			}
			times = append(times, t)
		}
		records = append(records, serviceRecord{Line: line, Times: times})
	})
	if readErr != nil {
		errs = append(errs, readErr)
	}
	return records, errs
}
