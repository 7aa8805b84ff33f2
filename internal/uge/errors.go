package uge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrJobNotFound indicates a live status query for a specific job id
// returned no record. This is the normal "job already finished" signal,
// not a failure.
var ErrJobNotFound = errors.New("job not found in live status")

// MissingColumnError reports expected table headers that were absent
// from a header line. Column-positional output must never be sliced
// against a partial header, so this fails the whole parse.
type MissingColumnError struct {
	Columns []string // Header names not found, in expected order
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing expected columns in header: %s",
		strings.Join(e.Columns, ", "))
}

// Is allows errors.Is to match MissingColumnError.
func (e *MissingColumnError) Is(target error) bool {
	_, ok := target.(*MissingColumnError)
	return ok
}

// MalformedRangeError reports a task-range string piece that does not
// follow the scheduler's start-stop:step syntax.
type MalformedRangeError struct {
	Range string // Full range string under parse
	Piece string // Offending comma-separated piece
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("malformed task range %q: bad piece %q", e.Range, e.Piece)
}

// Is allows errors.Is to match MalformedRangeError.
func (e *MalformedRangeError) Is(target error) bool {
	_, ok := target.(*MalformedRangeError)
	return ok
}

// UnknownStateError reports a state tag missing from the tag tables.
// Unmapped tags are a parsing gap and surface as errors instead of
// being counted into the wrong bucket.
type UnknownStateError struct {
	JobID string
	Tag   string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("job %s has unmapped state tag %q", e.JobID, e.Tag)
}

// Is allows errors.Is to match UnknownStateError.
func (e *UnknownStateError) Is(target error) bool {
	_, ok := target.(*UnknownStateError)
	return ok
}

// MalformedOutputError reports scheduler output that failed structural
// parsing (broken JSON/XML, unexpected shapes). It carries a truncated
// sample of the offending output for the logs.
type MalformedOutputError struct {
	Format string // "json", "xml" or "text"
	Sample string // Truncated offending output
	Err    error  // Underlying decode error, may be nil
}

func (e *MalformedOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s output: %v (sample: %q)", e.Format, e.Err, e.Sample)
	}
	return fmt.Sprintf("malformed %s output (sample: %q)", e.Format, e.Sample)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match MalformedOutputError.
func (e *MalformedOutputError) Is(target error) bool {
	_, ok := target.(*MalformedOutputError)
	return ok
}

// outputSampleLen bounds how much offending output an error carries.
const outputSampleLen = 500

func newMalformedOutputError(format, output string, err error) *MalformedOutputError {
	sample := output
	if len(sample) > outputSampleLen {
		sample = sample[:outputSampleLen]
	}
	return &MalformedOutputError{Format: format, Sample: sample, Err: err}
}
