package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/observability"
)

// Read parses a ZHVI neighborhood CSV and normalizes it into a table.
func Read(r io.Reader) (*domain.Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read csv header: empty file")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	header = trimBOM(header)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}

	return domain.BuildTable(header, rows)
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Loader reads the static source file once at startup.
type Loader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader that reports load stats to logger and metrics.
func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{logger: logger, metrics: metrics}
}

// Load opens path and returns the normalized table.
func (l *Loader) Load(path string) (*domain.Table, error) {
	start := time.Now()

	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	l.metrics.RowsLoaded.Set(float64(t.Stats.RowsKept))
	l.metrics.RowsDropped.WithLabelValues("no_location").Set(float64(t.Stats.DroppedNoLatLon))
	l.metrics.RowsDropped.WithLabelValues("no_metro").Set(float64(t.Stats.DroppedNoMetro))

	l.logger.Info("table loaded",
		"path", path,
		"rows_read", t.Stats.RowsRead,
		"rows_kept", t.Stats.RowsKept,
		"dropped_no_location", t.Stats.DroppedNoLatLon,
		"dropped_no_metro", t.Stats.DroppedNoMetro,
		"date_columns", t.Stats.DateColumnsCount,
		"first_date", t.Dates.Earliest().Format(domain.DateLayout),
		"last_date", t.Dates.Latest().Format(domain.DateLayout),
		"duration", time.Since(start),
	)
	return t, nil
}

func trimBOM(header []string) []string {
	if len(header) > 0 && len(header[0]) >= 3 && header[0][:3] == "\xef\xbb\xbf" {
		out := append([]string{}, header...)
		out[0] = out[0][3:]
		return out
	}
	return header
}
