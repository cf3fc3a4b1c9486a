package httpadapter

import (
	"fmt"
	"time"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/pipeline"
	"github.com/couchcryptid/zhvi-dashboard/internal/render"
)

// Layouts accepted for the date field of a selection patch.
var patchDateLayouts = []string{"2006-01", "2006-01-02"}

// patchRequest changes part of a selection. Fields are applied in chain
// order: state, metro, date, neighborhoods.
type patchRequest struct {
	State         *string   `json:"state"`
	Metro         *string   `json:"metro"`
	Date          *string   `json:"date"`
	Neighborhoods *[]string `json:"neighborhoods"`
}

// apply runs the patch against sel. On error sel may be partly changed;
// callers apply to a clone.
func (p patchRequest) apply(sel *domain.Selector) error {
	if p.State != nil {
		if err := sel.SelectState(*p.State); err != nil {
			return err
		}
	}
	if p.Metro != nil {
		if err := sel.SelectMetro(*p.Metro); err != nil {
			return err
		}
	}
	if p.Date != nil {
		d, err := parsePatchDate(*p.Date)
		if err != nil {
			return err
		}
		if err := sel.SelectDate(d); err != nil {
			// A date the user typed is bad input, not a broken selection.
			return fmt.Errorf("%w: %w", domain.ErrInvalidSelection, err)
		}
	}
	if p.Neighborhoods != nil {
		if err := sel.SelectNeighborhoods(*p.Neighborhoods); err != nil {
			return err
		}
	}
	return nil
}

func parsePatchDate(s string) (time.Time, error) {
	for _, layout := range patchDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM or YYYY-MM-DD", domain.ErrInvalidSelection, s)
}

type sessionResponse struct {
	ID         string            `json:"id"`
	Selection  domain.Selection  `json:"selection"`
	Candidates domain.Candidates `json:"candidates"`
}

type warningResponse struct {
	domain.AmbiguousNeighborhoodWarning
	Message string `json:"message"`
}

type seriesRow struct {
	Date   string              `json:"date"`
	Values map[string]*float64 `json:"values"`
}

type seriesResponse struct {
	Metro         string      `json:"metro"`
	Neighborhoods []string    `json:"neighborhoods"`
	Rows          []seriesRow `json:"rows"` // newest first
}

type snapshotTableRow struct {
	Region string `json:"region"`
	City   string `json:"city"`
	County string `json:"county"`
	ZHVI   string `json:"zhvi"`
}

type seriesTableRow struct {
	Date   string            `json:"date"`
	Values map[string]string `json:"values"`
}

type viewResponse struct {
	SessionID     string                  `json:"session_id"`
	Meta          pipeline.Meta           `json:"meta"`
	Selection     domain.Selection        `json:"selection"`
	Summary       *domain.SnapshotSummary `json:"summary,omitempty"`
	Metric        *pipeline.Metric        `json:"metric,omitempty"`
	Deck          *render.Deck            `json:"deck,omitempty"`
	Series        seriesResponse          `json:"series"`
	Warnings      []warningResponse       `json:"warnings"`
	Notices       []pipeline.Notice       `json:"notices"`
	SnapshotTable []snapshotTableRow      `json:"snapshot_table,omitempty"`
	SeriesTable   []seriesTableRow        `json:"series_table,omitempty"`
}

func newViewResponse(sessionID string, v pipeline.View, showData, showSeriesData bool) viewResponse {
	desc := v.Series.Descending()
	resp := viewResponse{
		SessionID: sessionID,
		Meta:      v.Meta,
		Selection: v.Selection,
		Summary:   v.Summary,
		Metric:    v.Metric,
		Deck:      v.Deck,
		Series: seriesResponse{
			Metro:         desc.Metro,
			Neighborhoods: make([]string, len(desc.Columns)),
			Rows:          []seriesRow{},
		},
		Warnings: make([]warningResponse, len(v.Warnings)),
		Notices:  v.Notices,
	}
	for i, c := range desc.Columns {
		resp.Series.Neighborhoods[i] = c.Region
	}
	if !desc.Empty() {
		for i, d := range desc.Dates {
			resp.Series.Rows = append(resp.Series.Rows, seriesRow{Date: d.Format(render.SeriesDateLayout), Values: desc.Row(i)})
		}
	}
	for i, w := range v.Warnings {
		resp.Warnings[i] = warningResponse{AmbiguousNeighborhoodWarning: w, Message: w.String()}
	}

	if showData {
		resp.SnapshotTable = make([]snapshotTableRow, len(v.Snapshot.Rows))
		for i, r := range v.Snapshot.Rows {
			resp.SnapshotTable[i] = snapshotTableRow{Region: r.Region, City: r.City, County: r.County, ZHVI: render.FormatUSD(float64(r.Value))}
		}
	}
	if showSeriesData && !desc.Empty() {
		resp.SeriesTable = make([]seriesTableRow, len(desc.Dates))
		for i, d := range desc.Dates {
			values := make(map[string]string, len(desc.Columns))
			for _, c := range desc.Columns {
				if v := c.Values[i]; v.Valid {
					values[c.Region] = render.FormatUSD(v.Float64)
				} else {
					values[c.Region] = ""
				}
			}
			resp.SeriesTable[i] = seriesTableRow{Date: d.Format(render.SeriesDateLayout), Values: values}
		}
	}
	return resp
}
