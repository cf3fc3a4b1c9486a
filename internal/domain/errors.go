package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrDataIntegrity    = errors.New("data integrity")
	ErrMalformedDate    = errors.New("malformed date header")
	ErrDateNotFound     = errors.New("date not found")
	ErrNoData           = errors.New("no data")
	ErrInvalidSelection = errors.New("invalid selection")
)

// DataIntegrityError reports a source table that cannot be normalized:
// required columns are absent, or a cell that must be numeric is not.
type DataIntegrityError struct {
	Missing []string // required columns absent from the header

	Line   int // 1-based source line of a bad cell (header is line 1)
	Column string
	Value  string
}

func (e *DataIntegrityError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("data integrity: missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("data integrity: line %d column %q: invalid number %q", e.Line, e.Column, e.Value)
}

func (e *DataIntegrityError) Is(target error) bool { return target == ErrDataIntegrity }

// MalformedDateError reports a date column header that breaks the date axis.
// Skipping the column instead would shift every later value onto the wrong month.
type MalformedDateError struct {
	Column int // 0-based index within the date headers
	Header string
	Reason string
	Err    error
}

func (e *MalformedDateError) Error() string {
	msg := fmt.Sprintf("malformed date header %q at date column %d", e.Header, e.Column)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDateError) Is(target error) bool { return target == ErrMalformedDate }

func (e *MalformedDateError) Unwrap() error { return e.Err }

// DateNotFoundError reports a selected month with no column on the date axis.
type DateNotFoundError struct {
	Date time.Time
}

func (e *DateNotFoundError) Error() string {
	return fmt.Sprintf("date not found: no column for %s", e.Date.Format("Jan 2006"))
}

func (e *DateNotFoundError) Is(target error) bool { return target == ErrDateNotFound }

// NoDataError reports a view that is empty after filtering. It is recoverable:
// the affected widget renders a placeholder.
type NoDataError struct {
	View  string // "snapshot" or "series"
	State string
	Metro string
	Date  time.Time
}

func (e *NoDataError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("no data: empty %s for metro %q", e.View, e.Metro)
	}
	return fmt.Sprintf("no data: empty %s for %q / %q at %s", e.View, e.State, e.Metro, e.Date.Format("Jan 2006"))
}

func (e *NoDataError) Is(target error) bool { return target == ErrNoData }

// AmbiguousNeighborhoodWarning names one of several rows sharing a Region
// within a metro. The neighborhood is left out of the series view.
type AmbiguousNeighborhoodWarning struct {
	Region string `json:"region"`
	Metro  string `json:"metro"`
	City   string `json:"city"`
	County string `json:"county"`
}

func (w AmbiguousNeighborhoodWarning) String() string {
	return fmt.Sprintf("unable to add %s in %s", w.Region, w.City)
}

func invalidSelection(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSelection, fmt.Sprintf(format, args...))
}
