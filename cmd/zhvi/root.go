package main

import (
	"log/slog"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/zhvi-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/observability"
)

// version is set at build time via -ldflags.
var version = "dev"

const defaultDataFile = "zillow_zhvi_neighborhood.csv"

type rootOptions struct {
	file     string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "zhvi",
		Short: "Explore typical home values by neighborhood",
		Long: "zhvi reads a Zillow Home Value Index neighborhood file and prints\n" +
			"the per-neighborhood snapshot for a metro and date, or the value\n" +
			"history of chosen neighborhoods.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.file, "file", sharedcfg.EnvOrDefault("DATA_FILE", defaultDataFile), "ZHVI neighborhood CSV file")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr (debug, info, warn, error)")

	cmd.AddCommand(
		newStatesCmd(opts),
		newMetrosCmd(opts),
		newNeighborhoodsCmd(opts),
		newSnapshotCmd(opts),
		newSeriesCmd(opts),
		newValidateCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger() *slog.Logger {
	return observability.NewStderrLogger(o.logLevel)
}

// loadTable reads and normalizes the data file named by --file.
func (o *rootOptions) loadTable() (*domain.Table, error) {
	t, err := csvfile.ReadFile(o.file)
	if err != nil {
		return nil, err
	}
	o.logger().Info("table loaded",
		"file", o.file,
		"records", len(t.Records),
		"dates", len(t.Dates),
		"rows_dropped", t.Stats.RowsDropped(),
	)
	return t, nil
}
