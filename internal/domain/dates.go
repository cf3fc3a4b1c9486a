package domain

import (
	"fmt"
	"time"
)

// DateLayout is the header format of every date column: MM-DD-YYYY.
const DateLayout = "01-02-2006"

// DateAxis is the chronological sequence of monthly dates taken from the
// table's date column headers. Index i of the axis is column i of every
// record's Values.
type DateAxis []time.Time

// ParseDateAxis parses date column headers in order. Any header that does not
// match DateLayout fails the whole axis, as does a header that is not strictly
// after its predecessor or repeats a calendar month.
func ParseDateAxis(headers []string) (DateAxis, error) {
	axis := make(DateAxis, 0, len(headers))
	for i, h := range headers {
		d, err := time.Parse(DateLayout, h)
		if err != nil {
			return nil, &MalformedDateError{Column: i, Header: h, Err: err}
		}
		if i > 0 {
			prev := axis[i-1]
			if sameMonth(prev, d) {
				return nil, &MalformedDateError{Column: i, Header: h, Reason: "duplicate month"}
			}
			if !d.After(prev) {
				return nil, &MalformedDateError{Column: i, Header: h, Reason: fmt.Sprintf("not after %s", prev.Format(DateLayout))}
			}
		}
		axis = append(axis, d)
	}
	return axis, nil
}

// Headers formats the axis back into column headers.
func (a DateAxis) Headers() []string {
	out := make([]string, len(a))
	for i, d := range a {
		out[i] = d.Format(DateLayout)
	}
	return out
}

// Earliest returns the first date, or the zero time for an empty axis.
func (a DateAxis) Earliest() time.Time {
	if len(a) == 0 {
		return time.Time{}
	}
	return a[0]
}

// Latest returns the most recent date, or the zero time for an empty axis.
func (a DateAxis) Latest() time.Time {
	if len(a) == 0 {
		return time.Time{}
	}
	return a[len(a)-1]
}

// IndexOf returns the column index whose month and year match d. An exact
// date match wins over a month match.
func (a DateAxis) IndexOf(d time.Time) (int, error) {
	match := -1
	for i, ad := range a {
		if ad.Equal(d) {
			return i, nil
		}
		if match < 0 && sameMonth(ad, d) {
			match = i
		}
	}
	if match < 0 {
		return 0, &DateNotFoundError{Date: d}
	}
	return match, nil
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
