package domain

import (
	"math"
	"slices"
	"time"
)

// SeriesColumn is one neighborhood's full history, parallel to SeriesTable.Dates.
type SeriesColumn struct {
	Region string      `json:"region"`
	Values []NullFloat `json:"-"`
}

// SeriesTable is the longitudinal view of the selected neighborhoods.
// Canonical order is ascending by date.
type SeriesTable struct {
	Metro   string         `json:"metro"`
	Dates   []time.Time    `json:"dates"`
	Columns []SeriesColumn `json:"columns"`
}

// ExtractSeries builds one column per requested neighborhood of metro.
// A name matching several rows is ambiguous: it gets no column and one
// warning per matching row. A name matching nothing is ignored. Values are
// rounded to cents.
func ExtractSeries(t *Table, metro string, names []string) (SeriesTable, []AmbiguousNeighborhoodWarning) {
	st := SeriesTable{
		Metro:   metro,
		Dates:   slices.Clone([]time.Time(t.Dates)),
		Columns: []SeriesColumn{},
	}
	var warnings []AmbiguousNeighborhoodWarning

	done := make(map[string]bool, len(names))
	for _, name := range names {
		if done[name] {
			continue
		}
		done[name] = true

		var matches []NeighborhoodRecord
		for _, r := range t.Records {
			if r.Region == name && r.Metro == metro {
				matches = append(matches, r)
			}
		}

		switch len(matches) {
		case 0:
			continue
		case 1:
			st.Columns = append(st.Columns, SeriesColumn{
				Region: name,
				Values: roundCents(matches[0].Values),
			})
		default:
			for _, m := range matches {
				warnings = append(warnings, AmbiguousNeighborhoodWarning{
					Region: name,
					Metro:  metro,
					City:   m.City,
					County: m.County,
				})
			}
		}
	}
	return st, warnings
}

// Empty reports whether the table has no columns.
func (s SeriesTable) Empty() bool { return len(s.Columns) == 0 }

// Descending returns a copy sorted newest date first, for display.
func (s SeriesTable) Descending() SeriesTable {
	n := len(s.Dates)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return s.Dates[b].Compare(s.Dates[a])
	})

	out := SeriesTable{
		Metro:   s.Metro,
		Dates:   make([]time.Time, n),
		Columns: make([]SeriesColumn, len(s.Columns)),
	}
	for i, j := range order {
		out.Dates[i] = s.Dates[j]
	}
	for c, col := range s.Columns {
		values := make([]NullFloat, n)
		for i, j := range order {
			values[i] = col.Values[j]
		}
		out.Columns[c] = SeriesColumn{Region: col.Region, Values: values}
	}
	return out
}

// Row returns the values of every column at date index i, keyed by region.
func (s SeriesTable) Row(i int) map[string]*float64 {
	row := make(map[string]*float64, len(s.Columns))
	for _, col := range s.Columns {
		if v := col.Values[i]; v.Valid {
			f := v.Float64
			row[col.Region] = &f
		} else {
			row[col.Region] = nil
		}
	}
	return row
}

func roundCents(in []NullFloat) []NullFloat {
	out := make([]NullFloat, len(in))
	for i, v := range in {
		if v.Valid {
			out[i] = NullFloat{Float64: math.Round(v.Float64*100) / 100, Valid: true}
		}
	}
	return out
}
