package domain

import (
	"slices"
	"time"
)

// Selection is the user's position in the state → metro → date →
// neighborhoods cascade.
type Selection struct {
	State         string    `json:"state"`
	Metro         string    `json:"metro"`
	Date          time.Time `json:"date"`
	Neighborhoods []string  `json:"neighborhoods"`
}

// Candidates holds the values each selector may currently offer.
type Candidates struct {
	States        []string  `json:"states"`
	Metros        []string  `json:"metros"`
	DateMin       time.Time `json:"date_min"`
	DateMax       time.Time `json:"date_max"`
	Neighborhoods []string  `json:"neighborhoods"`
}

// States returns the distinct states of the table, sorted.
func States(t *Table) []string {
	return distinct(t, func(r NeighborhoodRecord) (string, bool) { return r.State, true })
}

// Metros returns the distinct metros within state, sorted.
func Metros(t *Table, state string) []string {
	return distinct(t, func(r NeighborhoodRecord) (string, bool) {
		return r.Metro, r.State == state
	})
}

// Neighborhoods returns the distinct regions within (state, metro), sorted.
func Neighborhoods(t *Table, state, metro string) []string {
	return distinct(t, func(r NeighborhoodRecord) (string, bool) {
		return r.Region, r.State == state && r.Metro == metro
	})
}

// MetroNeighborhoods returns the distinct regions of metro across every
// state it spans, sorted. These are the names series extraction can match.
func MetroNeighborhoods(t *Table, metro string) []string {
	return distinct(t, func(r NeighborhoodRecord) (string, bool) {
		return r.Region, r.Metro == metro
	})
}

// DateRange returns the bounds of the table's date axis.
func DateRange(t *Table) (earliest, latest time.Time) {
	return t.Dates.Earliest(), t.Dates.Latest()
}

func distinct(t *Table, pick func(NeighborhoodRecord) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range t.Records {
		v, ok := pick(r)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Selector walks the selection cascade. Every change recomputes the
// downstream candidate sets and repairs downstream choices that are no longer
// valid, so a Selector never holds an orphaned selection.
//
// A Selector is not safe for concurrent use.
type Selector struct {
	table *Table
	sel   Selection
}

// NewSelector starts at the first state, its first metro, the latest date,
// and no neighborhoods.
func NewSelector(t *Table) *Selector {
	s := &Selector{table: t}
	if states := States(t); len(states) > 0 {
		s.sel.State = states[0]
	}
	s.resetMetro()
	s.sel.Date = t.Dates.Latest()
	s.sel.Neighborhoods = []string{}
	return s
}

// Selection returns a copy of the current selection.
func (s *Selector) Selection() Selection {
	out := s.sel
	out.Neighborhoods = slices.Clone(s.sel.Neighborhoods)
	return out
}

// Clone returns an independent copy sharing the same table, so a group of
// changes can be tried and discarded together.
func (s *Selector) Clone() *Selector {
	return &Selector{table: s.table, sel: s.Selection()}
}

// Candidates returns the values each selector may offer given the upstream choices.
func (s *Selector) Candidates() Candidates {
	earliest, latest := DateRange(s.table)
	return Candidates{
		States:        States(s.table),
		Metros:        Metros(s.table, s.sel.State),
		DateMin:       earliest,
		DateMax:       latest,
		Neighborhoods: Neighborhoods(s.table, s.sel.State, s.sel.Metro),
	}
}

// SelectState changes the state. The metro is kept only if it also exists in
// the new state; otherwise it resets to the new state's first metro.
func (s *Selector) SelectState(state string) error {
	if !slices.Contains(States(s.table), state) {
		return invalidSelection("unknown state %q", state)
	}
	s.sel.State = state
	if !slices.Contains(Metros(s.table, state), s.sel.Metro) {
		s.resetMetro()
	}
	s.pruneNeighborhoods()
	return nil
}

// SelectMetro changes the metro within the current state.
func (s *Selector) SelectMetro(metro string) error {
	if !slices.Contains(Metros(s.table, s.sel.State), metro) {
		return invalidSelection("metro %q is not in state %q", metro, s.sel.State)
	}
	s.sel.Metro = metro
	s.pruneNeighborhoods()
	return nil
}

// SelectDate moves the date to the axis column for d's month and year.
func (s *Selector) SelectDate(d time.Time) error {
	i, err := s.table.Dates.IndexOf(d)
	if err != nil {
		return err
	}
	s.sel.Date = s.table.Dates[i]
	return nil
}

// SelectNeighborhoods replaces the neighborhood set. Every name must be a
// candidate for the current (state, metro); duplicates are collapsed.
func (s *Selector) SelectNeighborhoods(names []string) error {
	valid := Neighborhoods(s.table, s.sel.State, s.sel.Metro)
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(valid, n) {
			return invalidSelection("neighborhood %q is not in metro %q", n, s.sel.Metro)
		}
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	s.sel.Neighborhoods = out
	return nil
}

func (s *Selector) resetMetro() {
	s.sel.Metro = ""
	if metros := Metros(s.table, s.sel.State); len(metros) > 0 {
		s.sel.Metro = metros[0]
	}
}

func (s *Selector) pruneNeighborhoods() {
	valid := Neighborhoods(s.table, s.sel.State, s.sel.Metro)
	kept := make([]string, 0, len(s.sel.Neighborhoods))
	for _, n := range s.sel.Neighborhoods {
		if slices.Contains(valid, n) {
			kept = append(kept, n)
		}
	}
	s.sel.Neighborhoods = kept
}
