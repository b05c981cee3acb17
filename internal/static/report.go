package static

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrUnreadableSource marks a source that could not be opened or read.
	ErrUnreadableSource = errors.New("unreadable source")
	// ErrMalformedRecord marks a record that could not be parsed.
	ErrMalformedRecord = errors.New("malformed record")
)

// LoadError is one problem found while loading schedule sources. Loading
// carries on after every LoadError; the affected record or source is skipped.
type LoadError struct {
	Source string
	Line   int // 1-based record number, 0 when the whole source failed
	Err    error
}

func (e *LoadError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Report summarises one load.
type Report struct {
	Stations int
	Lines    int
	Services int
	Errors   []*LoadError
}

func (r *Report) add(errs ...*LoadError) {
	for _, err := range errs {
		log.Printf("Warning: %v", err)
		r.Errors = append(r.Errors, err)
	}
}

func (r *Report) sourceFailed(source string, err error) {
	r.add(&LoadError{Source: source, Err: fmt.Errorf("%w: %w", ErrUnreadableSource, err)})
}
