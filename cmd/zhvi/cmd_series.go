package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/pipeline"
	"github.com/couchcryptid/zhvi-dashboard/internal/render"
)

type seriesOptions struct {
	metro         string
	neighborhoods []string
	format        string
	chart         string
}

func newSeriesCmd(root *rootOptions) *cobra.Command {
	var opts seriesOptions
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print the value history of neighborhoods in a metro",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeries(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.metro, "metro", "", "metro name, e.g. \"Austin, TX\" (required)")
	f.StringArrayVar(&opts.neighborhoods, "neighborhood", nil, "neighborhood name; repeat for several (required)")
	f.StringVar(&opts.format, "format", "text", "table format (text, markdown, html, csv)")
	f.StringVar(&opts.chart, "chart", "", "also draw a line chart to this .png or .svg file")
	_ = cmd.MarkFlagRequired("metro")
	_ = cmd.MarkFlagRequired("neighborhood")
	return cmd
}

func runSeries(cmd *cobra.Command, root *rootOptions, opts seriesOptions) error {
	format, err := render.ParseTableFormat(opts.format)
	if err != nil {
		return err
	}
	var chartFormat render.ChartFormat
	if opts.chart != "" {
		chartFormat, err = render.ParseChartFormat(strings.TrimPrefix(filepath.Ext(opts.chart), "."))
		if err != nil {
			return fmt.Errorf("--chart: %w", err)
		}
	}

	t, err := root.loadTable()
	if err != nil {
		return err
	}

	if err := checkSeriesSelection(t, opts.metro, opts.neighborhoods); err != nil {
		return err
	}

	st, warnings := domain.ExtractSeries(t, opts.metro, opts.neighborhoods)
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), w.String())
	}

	out := cmd.OutOrStdout()
	if st.Empty() {
		fmt.Fprintln(out, pipeline.NoDataText)
		return nil
	}
	fmt.Fprintln(out, render.SeriesTableView(st, format))

	if opts.chart != "" {
		if err := writeChart(opts.chart, st, chartFormat); err != nil {
			return err
		}
		root.logger().Info("chart written", "path", opts.chart, "series", len(st.Columns))
	}
	return nil
}

// checkSeriesSelection rejects a metro absent from the table and names that
// are not neighborhoods of that metro.
func checkSeriesSelection(t *domain.Table, metro string, names []string) error {
	valid := domain.MetroNeighborhoods(t, metro)
	if len(valid) == 0 {
		return fmt.Errorf("%w: unknown metro %q", domain.ErrInvalidSelection, metro)
	}
	for _, n := range names {
		if !slices.Contains(valid, n) {
			return fmt.Errorf("%w: neighborhood %q is not in metro %q", domain.ErrInvalidSelection, n, metro)
		}
	}
	return nil
}

func writeChart(path string, st domain.SeriesTable, format render.ChartFormat) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close chart file: %w", cerr)
		}
	}()
	return render.RenderSeriesChart(f, st, format)
}
