package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Rounding selects how a float index value becomes whole dollars.
type Rounding int

const (
	// RoundNearest rounds half away from zero.
	RoundNearest Rounding = iota
	// RoundTruncate drops the fraction, biasing values down by under a dollar.
	RoundTruncate
)

// ParseRounding accepts "round" or "truncate".
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "round", "nearest", "":
		return RoundNearest, nil
	case "truncate", "trunc":
		return RoundTruncate, nil
	default:
		return 0, fmt.Errorf("unknown rounding mode %q", s)
	}
}

func (r Rounding) String() string {
	if r == RoundTruncate {
		return "truncate"
	}
	return "round"
}

// Dollars converts an index value to whole dollars, saturating at the
// int64 bounds.
func (r Rounding) Dollars(v float64) int64 {
	if r == RoundTruncate {
		v = math.Trunc(v)
	} else {
		v = math.Round(v)
	}
	switch {
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

// SnapshotRow is one neighborhood's value at the snapshot date.
type SnapshotRow struct {
	Region    string  `json:"region"`
	City      string  `json:"city"`
	County    string  `json:"county"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Value     int64   `json:"zhvi"`
}

// Snapshot is the cross-section of one metro at one date. Rows keep table order.
type Snapshot struct {
	State string        `json:"state"`
	Metro string        `json:"metro"`
	Date  time.Time     `json:"date"`
	Rows  []SnapshotRow `json:"rows"`
}

// SnapshotSummary is the scalar metric and map center of a non-empty snapshot.
type SnapshotSummary struct {
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Latitude  float64 `json:"center_latitude"`
	Longitude float64 `json:"center_longitude"`
}

// TakeSnapshot returns every neighborhood in (state, metro) that has a value
// at the axis column for date's month. An empty result is not an error here;
// Summary reports it.
func TakeSnapshot(t *Table, state, metro string, date time.Time, rounding Rounding) (Snapshot, error) {
	col, err := t.Dates.IndexOf(date)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		State: state,
		Metro: metro,
		Date:  t.Dates[col],
		Rows:  []SnapshotRow{},
	}
	for _, r := range t.Records {
		if r.State != state || r.Metro != metro {
			continue
		}
		v := r.Values[col]
		if !v.Valid {
			continue
		}
		snap.Rows = append(snap.Rows, SnapshotRow{
			Region:    r.Region,
			City:      r.City,
			County:    r.County,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Value:     rounding.Dollars(v.Float64),
		})
	}
	return snap, nil
}

// Empty reports whether no neighborhood had a value.
func (s Snapshot) Empty() bool { return len(s.Rows) == 0 }

// Summary computes the mean value and the coordinate centroid. An empty
// snapshot yields a NoDataError rather than a NaN mean.
func (s Snapshot) Summary() (SnapshotSummary, error) {
	if s.Empty() {
		return SnapshotSummary{}, &NoDataError{View: "snapshot", State: s.State, Metro: s.Metro, Date: s.Date}
	}
	var sum, lat, lon float64
	for _, r := range s.Rows {
		sum += float64(r.Value)
		lat += r.Latitude
		lon += r.Longitude
	}
	n := float64(len(s.Rows))
	return SnapshotSummary{
		Count:     len(s.Rows),
		Mean:      sum / n,
		Latitude:  lat / n,
		Longitude: lon / n,
	}, nil
}
