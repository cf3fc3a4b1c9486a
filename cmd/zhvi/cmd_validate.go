package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

// errValidationFailed is returned under --strict when any phase reports problems.
var errValidationFailed = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name     string
	problems []string
}

func (p *phase) problemf(format string, args ...any) {
	p.problems = append(p.problems, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.problems) == 0 }

func newValidateCmd(root *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the data file for dropped rows, gaps and ambiguous neighborhoods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := root.loadTable()
			if err != nil {
				return err
			}
			phases := validatePhases(t)
			if !report(cmd.OutOrStdout(), t, phases) && strict {
				return errValidationFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any check reports a problem")
	return cmd
}

func validatePhases(t *domain.Table) []*phase {
	return []*phase{
		validateRows(t.Stats),
		validateDateAxis(t.Dates),
		validateRegionUniqueness(t),
		validateValueCoverage(t),
	}
}

func validateRows(s domain.LoadStats) *phase {
	p := &phase{name: "Row completeness"}
	if s.DroppedNoLatLon > 0 {
		p.problemf("%d rows dropped without latitude or longitude", s.DroppedNoLatLon)
	}
	if s.DroppedNoMetro > 0 {
		p.problemf("%d rows dropped without a metro", s.DroppedNoMetro)
	}
	return p
}

func validateDateAxis(a domain.DateAxis) *phase {
	p := &phase{name: "Date axis continuity"}
	if len(a) == 0 {
		p.problemf("no date columns")
		return p
	}
	for _, m := range a.MissingMonths() {
		p.problemf("no column for %s", m.Format("Jan 2006"))
	}
	return p
}

func validateRegionUniqueness(t *domain.Table) *phase {
	p := &phase{name: "Region uniqueness within metro"}
	for _, d := range domain.DuplicateRegions(t) {
		locs := make([]string, len(d.Locations))
		for i, l := range d.Locations {
			locs[i] = l.String()
		}
		p.problemf("%s appears %d times in %s (%s)",
			d.Region, len(d.Locations), d.Metro, strings.Join(locs, ", "))
	}
	return p
}

func validateValueCoverage(t *domain.Table) *phase {
	p := &phase{name: "Value coverage"}
	for _, r := range domain.EmptyRecords(t) {
		p.problemf("%s in %s has no value at any date", r.Region, r.Metro)
	}
	return p
}

// report prints the phase summary and details, and reports whether every
// phase passed.
func report(out io.Writer, t *domain.Table, phases []*phase) bool {
	s := t.Stats
	fmt.Fprintf(out, "Rows: %d read, %d kept, %d dropped\n", s.RowsRead, s.RowsKept, s.RowsDropped())
	if len(t.Dates) > 0 {
		fmt.Fprintf(out, "Dates: %d columns, %s to %s\n",
			len(t.Dates), t.Dates.Earliest().Format(domain.DateLayout), t.Dates.Latest().Format(domain.DateLayout))
	}
	if len(s.DroppedColumns) > 0 {
		fmt.Fprintf(out, "Ignored columns: %s\n", strings.Join(s.DroppedColumns, ", "))
	}
	fmt.Fprintln(out)

	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Check", "Result"})
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d problems)", len(p.problems))
			allPassed = false
		}
		w.AppendRow(table.Row{p.name, status})
	}
	fmt.Fprintln(out, w.Render())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.problems {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll checks passed.")
	} else {
		fmt.Fprintln(out, "\nChecks reported problems.")
	}
	return allPassed
}
