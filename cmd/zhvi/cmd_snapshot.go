package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/pipeline"
	"github.com/couchcryptid/zhvi-dashboard/internal/render"
)

// monthLayout is the --date flag format.
const monthLayout = "2006-01"

type snapshotOptions struct {
	state    string
	metro    string
	date     string
	format   string
	rounding string
	geojson  string
}

func newSnapshotCmd(root *rootOptions) *cobra.Command {
	var opts snapshotOptions
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print every neighborhood's value in a metro at one date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.state, "state", "", "two-letter state code (required)")
	f.StringVar(&opts.metro, "metro", "", "metro name; defaults to the state's first metro")
	f.StringVar(&opts.date, "date", "", "month as YYYY-MM; defaults to the latest date")
	f.StringVar(&opts.format, "format", "text", "table format (text, markdown, html, csv)")
	f.StringVar(&opts.rounding, "rounding", "round", "value rounding (round, truncate)")
	f.StringVar(&opts.geojson, "geojson", "", "also write the snapshot as a GeoJSON FeatureCollection to this file")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func runSnapshot(cmd *cobra.Command, root *rootOptions, opts snapshotOptions) error {
	format, err := render.ParseTableFormat(opts.format)
	if err != nil {
		return err
	}
	rounding, err := domain.ParseRounding(opts.rounding)
	if err != nil {
		return err
	}

	t, err := root.loadTable()
	if err != nil {
		return err
	}

	sel := domain.NewSelector(t)
	if err := sel.SelectState(opts.state); err != nil {
		return err
	}
	if opts.metro != "" {
		if err := sel.SelectMetro(opts.metro); err != nil {
			return err
		}
	}
	if opts.date != "" {
		d, err := time.Parse(monthLayout, opts.date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM", opts.date)
		}
		if err := sel.SelectDate(d); err != nil {
			return err
		}
	}

	s := sel.Selection()
	snap, err := domain.TakeSnapshot(t, s.State, s.Metro, s.Date, rounding)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if snap.Empty() {
		fmt.Fprintln(out, pipeline.NoDataText)
		return nil
	}

	if format == render.TableText {
		sum, err := snap.Summary()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s, %s\n", snap.Metro, snap.Date.Format("January 2006"))
		fmt.Fprintf(out, "%s: %s\n\n", pipeline.MetricLabel, render.FormatUSD(sum.Mean))
	}
	fmt.Fprintln(out, render.SnapshotTable(snap, format))

	if opts.geojson != "" {
		data, err := render.MarshalFeatureCollection(snap)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.geojson, data, 0o644); err != nil {
			return fmt.Errorf("write geojson: %w", err)
		}
		root.logger().Info("geojson written", "path", opts.geojson, "features", len(snap.Rows))
	}
	return nil
}
