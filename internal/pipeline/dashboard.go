package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/observability"
	"github.com/couchcryptid/zhvi-dashboard/internal/render"
)

// Page copy shown alongside every view.
const (
	PageTitle    = "Housing Prices in America"
	PageSubtitle = "Explore home prices in neighborhoods across the United States based on data from Zillow"
	PageCaption  = "Zillow Home Value Index (ZHVI): A smoothed, seasonally-adjusted measure of the typical home value in USD"
	SeriesHeader = "Typical Home Prices over Time"
	Citation     = "Zillow Research"
	MetricLabel  = "Average ZHVI across all neighborhoods"
	NoDataText   = "No data available for this selection"
)

// Publisher accepts snapshot events without blocking the caller.
type Publisher interface {
	Publish(ev domain.SnapshotEvent)
}

// Meta is the static page copy.
type Meta struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Caption      string `json:"caption"`
	SeriesHeader string `json:"series_header"`
	Citation     string `json:"citation"`
}

// Metric is the headline average of a snapshot.
type Metric struct {
	Label string  `json:"label"`
	Value string  `json:"value"`
	Mean  float64 `json:"mean"`
}

// Notice tells the client that a widget has nothing to show.
type Notice struct {
	View    string `json:"view"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// View is everything one dashboard render needs for a selection. Metric and
// Deck are nil when the snapshot is empty; a no_data notice says so.
type View struct {
	Meta      Meta                                  `json:"meta"`
	Selection domain.Selection                      `json:"selection"`
	Snapshot  domain.Snapshot                       `json:"snapshot"`
	Summary   *domain.SnapshotSummary               `json:"summary,omitempty"`
	Metric    *Metric                               `json:"metric,omitempty"`
	Deck      *render.Deck                          `json:"deck,omitempty"`
	Series    domain.SeriesTable                    `json:"-"`
	Warnings  []domain.AmbiguousNeighborhoodWarning `json:"warnings"`
	Notices   []Notice                              `json:"notices"`
}

// Dashboard computes views over one loaded table. It holds no per-user
// state and is safe for concurrent use.
type Dashboard struct {
	table     *domain.Table
	rounding  domain.Rounding
	mapStyle  string
	logger    *slog.Logger
	metrics   *observability.Metrics
	publisher Publisher
}

// NewDashboard creates a Dashboard. publisher may be nil.
func NewDashboard(table *domain.Table, rounding domain.Rounding, mapStyle string, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	return &Dashboard{
		table:     table,
		rounding:  rounding,
		mapStyle:  mapStyle,
		logger:    logger,
		metrics:   metrics,
		publisher: publisher,
	}
}

// Table returns the shared read-only table.
func (d *Dashboard) Table() *domain.Table { return d.table }

// Rounding returns the configured dollar conversion.
func (d *Dashboard) Rounding() domain.Rounding { return d.rounding }

// MapStyle returns the configured basemap style.
func (d *Dashboard) MapStyle() string { return d.mapStyle }

// CheckReadiness reports whether a table with at least one record is loaded.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if d.table == nil || len(d.table.Records) == 0 {
		return errors.New("no neighborhood data loaded")
	}
	return nil
}

// Snapshot computes only the cross-section for sel.
func (d *Dashboard) Snapshot(sel domain.Selection) (domain.Snapshot, error) {
	return domain.TakeSnapshot(d.table, sel.State, sel.Metro, sel.Date, d.rounding)
}

// Series computes only the time series for sel.
func (d *Dashboard) Series(sel domain.Selection) (domain.SeriesTable, []domain.AmbiguousNeighborhoodWarning) {
	return domain.ExtractSeries(d.table, sel.Metro, sel.Neighborhoods)
}

// View recomputes the snapshot and series for sel. An empty snapshot or
// series is reported as a notice; a date missing from the axis is returned
// as an error since the selector never produces one.
func (d *Dashboard) View(_ context.Context, sessionID string, sel domain.Selection) (View, error) {
	start := time.Now()
	defer func() { d.metrics.ViewDuration.Observe(time.Since(start).Seconds()) }()

	snap, err := d.Snapshot(sel)
	if err != nil {
		d.logger.Error("snapshot failed", "state", sel.State, "metro", sel.Metro, "date", sel.Date, "error", err)
		return View{}, err
	}

	v := View{
		Meta: Meta{
			Title:        PageTitle,
			Subtitle:     PageSubtitle,
			Caption:      PageCaption,
			SeriesHeader: SeriesHeader,
			Citation:     Citation,
		},
		Selection: sel,
		Snapshot:  snap,
		Warnings:  []domain.AmbiguousNeighborhoodWarning{},
		Notices:   []Notice{},
	}

	if sum, err := snap.Summary(); err == nil {
		v.Summary = &sum
		v.Metric = &Metric{Label: MetricLabel, Value: render.FormatUSD(sum.Mean), Mean: sum.Mean}
		deck := render.BuildDeck(snap, sum, d.mapStyle)
		v.Deck = &deck
	} else {
		v.Notices = append(v.Notices, d.noData("snapshot", err))
	}

	series, warnings := d.Series(sel)
	v.Series = series
	if len(warnings) > 0 {
		v.Warnings = warnings
		d.metrics.AmbiguityWarnings.Add(float64(len(warnings)))
		for _, w := range warnings {
			d.logger.Warn("ambiguous neighborhood", "region", w.Region, "metro", w.Metro, "city", w.City, "county", w.County)
		}
	}
	if len(sel.Neighborhoods) > 0 && series.Empty() {
		v.Notices = append(v.Notices, d.noData("series", &domain.NoDataError{View: "series", State: sel.State, Metro: sel.Metro}))
	}

	d.metrics.ViewsComputed.Inc()
	if d.publisher != nil {
		d.publisher.Publish(domain.NewSnapshotEvent(sessionID, sel, snap, len(warnings)))
	}
	return v, nil
}

func (d *Dashboard) noData(view string, err error) Notice {
	d.metrics.NoDataViews.WithLabelValues(view).Inc()
	d.logger.Debug("no data for view", "view", view, "error", err)
	return Notice{View: view, Code: "no_data", Message: NoDataText}
}
