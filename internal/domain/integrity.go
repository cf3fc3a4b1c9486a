package domain

import (
	"sort"
	"time"
)

// DuplicateRegion is a Region name that occurs more than once within one
// Metro. Series extraction matches on Region and Metro alone, so it refuses
// to pick among such rows even when they lie in different states.
type DuplicateRegion struct {
	Region    string
	Metro     string
	Locations []RegionLocation
}

// RegionLocation places one of the rows sharing a duplicated Region.
type RegionLocation struct {
	State string
	City  string
}

func (l RegionLocation) String() string { return l.City + " (" + l.State + ")" }

// DuplicateRegions lists every ambiguous Region in the table, sorted by
// metro and region. Locations keep source row order.
func DuplicateRegions(t *Table) []DuplicateRegion {
	type key struct{ metro, region string }
	locations := make(map[key][]RegionLocation)
	for _, r := range t.Records {
		k := key{r.Metro, r.Region}
		locations[k] = append(locations[k], RegionLocation{State: r.State, City: r.City})
	}

	var out []DuplicateRegion
	for k, locs := range locations {
		if len(locs) < 2 {
			continue
		}
		out = append(out, DuplicateRegion{Region: k.region, Metro: k.metro, Locations: locs})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Metro != b.Metro {
			return a.Metro < b.Metro
		}
		return a.Region < b.Region
	})
	return out
}

// EmptyRecords returns the records that have no value at any date.
func EmptyRecords(t *Table) []NeighborhoodRecord {
	var out []NeighborhoodRecord
	for _, r := range t.Records {
		empty := true
		for _, v := range r.Values {
			if v.Valid {
				empty = false
				break
			}
		}
		if empty {
			out = append(out, r)
		}
	}
	return out
}

// MissingMonths returns the calendar months between the first and last date
// of the axis that have no column, as the first day of each month.
func (a DateAxis) MissingMonths() []time.Time {
	if len(a) < 2 {
		return nil
	}
	var out []time.Time
	for i := 1; i < len(a); i++ {
		prev := time.Date(a[i-1].Year(), a[i-1].Month(), 1, 0, 0, 0, 0, time.UTC)
		cur := time.Date(a[i].Year(), a[i].Month(), 1, 0, 0, 0, 0, time.UTC)
		for m := prev.AddDate(0, 1, 0); m.Before(cur); m = m.AddDate(0, 1, 0) {
			out = append(out, m)
		}
	}
	return out
}
