package transit

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the query engine. Callers match them with errors.Is.
var (
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrUnknownStation = errors.New("unknown station")
	ErrUnknownLine    = errors.New("unknown line")

	ErrInvalidTime    = errors.New("invalid time")
	ErrTimeNotNumeric = fmt.Errorf("%w: enter time as a four digit integer", ErrInvalidTime)
	ErrTimeOutOfRange = fmt.Errorf("%w: time must be between 0000 and 2359", ErrInvalidTime)
)

// ErrNoResult is matched by every well-formed query that found nothing.
var ErrNoResult = errors.New("no result")

var (
	ErrNoDirectLine     error = noResultError("no direct line in that direction")
	ErrNoConnectingLine error = noResultError("no connecting line in that order")
	ErrNoTripAfter      error = noResultError("no trip after this time")
)

// Build-phase errors returned by Builder.
var (
	ErrDuplicateLine  = errors.New("duplicate line")
	ErrServiceTooLong = errors.New("service has more times than the line has stations")
	ErrEmptyService   = errors.New("service has no times")
)

// EntityKind names what kind of entity a lookup was for.
type EntityKind string

const (
	KindStation EntityKind = "station"
	KindLine    EntityKind = "line"
)

// EntityError is returned when a station or line name is not in the network.
type EntityError struct {
	Kind EntityKind
	Name string
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

func (e *EntityError) Is(target error) bool {
	switch target {
	case ErrUnknownEntity:
		return true
	case ErrUnknownStation:
		return e.Kind == KindStation
	case ErrUnknownLine:
		return e.Kind == KindLine
	}
	return false
}

func unknownStation(name string) error {
	return &EntityError{Kind: KindStation, Name: name}
}

func unknownLine(name string) error {
	return &EntityError{Kind: KindLine, Name: name}
}

type noResultError string

func (e noResultError) Error() string { return string(e) }

func (e noResultError) Is(target error) bool { return target == ErrNoResult }

// NoTripError reports that the first line running in the requested direction
// has no service leaving after the requested time.
type NoTripError struct {
	Line  string
	After Clock
}

func (e *NoTripError) Error() string {
	return fmt.Sprintf("no trip available on line %s after time %s", e.Line, e.After)
}

func (e *NoTripError) Unwrap() error { return ErrNoTripAfter }
