package render

import (
	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

// Map view defaults.
const (
	DefaultZoom   = 9
	DefaultPitch  = 70
	ColumnRadius  = 75
	columnLayerID = "zhvi-columns"
)

// TooltipHTML is the hover template; placeholders name fields of ColumnDatum.
const TooltipHTML = "<b>Area:</b> {region} <br> <b>ZHVI:</b> {zhvi} <br/>"

// Deck is a deck.gl JSON specification: one extruded column layer over a
// basemap, with an initial camera centered on the snapshot centroid.
type Deck struct {
	MapStyle         string        `json:"mapStyle"`
	InitialViewState ViewState     `json:"initialViewState"`
	Layers           []ColumnLayer `json:"layers"`
	Tooltip          Tooltip       `json:"tooltip"`
}

// ViewState is the initial camera.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
	Bearing   float64 `json:"bearing"`
}

// ColumnLayer is a deck.gl ColumnLayer whose accessors read precomputed
// fields of each datum.
type ColumnLayer struct {
	Type          string        `json:"@@type"`
	ID            string        `json:"id"`
	Data          []ColumnDatum `json:"data"`
	GetPosition   string        `json:"getPosition"`
	GetElevation  string        `json:"getElevation"`
	GetFillColor  string        `json:"getFillColor"`
	Radius        float64       `json:"radius"`
	Extruded      bool          `json:"extruded"`
	Pickable      bool          `json:"pickable"`
	AutoHighlight bool          `json:"autoHighlight"`
}

// ColumnDatum is one neighborhood column.
type ColumnDatum struct {
	Region    string     `json:"region"`
	City      string     `json:"city"`
	County    string     `json:"county"`
	Position  [2]float64 `json:"position"` // [longitude, latitude]
	Value     int64      `json:"zhvi"`
	Elevation float64    `json:"elevation"`
	FillColor [3]int     `json:"fill_color"`
}

// Tooltip is the hover popup.
type Tooltip struct {
	HTML  string            `json:"html"`
	Style map[string]string `json:"style"`
}

// BuildDeck builds the 3D map spec for a snapshot. The snapshot must be
// non-empty; sum is its summary.
func BuildDeck(snap domain.Snapshot, sum domain.SnapshotSummary, mapStyle string) Deck {
	data := make([]ColumnDatum, len(snap.Rows))
	for i, r := range snap.Rows {
		data[i] = ColumnDatum{
			Region:    r.Region,
			City:      r.City,
			County:    r.County,
			Position:  [2]float64{r.Longitude, r.Latitude},
			Value:     r.Value,
			Elevation: ColumnElevation(r.Value),
			FillColor: ColumnColor(r.Value),
		}
	}

	return Deck{
		MapStyle: "mapbox://styles/" + mapStyle,
		InitialViewState: ViewState{
			Latitude:  sum.Latitude,
			Longitude: sum.Longitude,
			Zoom:      DefaultZoom,
			Pitch:     DefaultPitch,
		},
		Layers: []ColumnLayer{{
			Type:          "ColumnLayer",
			ID:            columnLayerID,
			Data:          data,
			GetPosition:   "@@=position",
			GetElevation:  "@@=elevation",
			GetFillColor:  "@@=fill_color",
			Radius:        ColumnRadius,
			Extruded:      true,
			Pickable:      true,
			AutoHighlight: true,
		}},
		Tooltip: Tooltip{
			HTML:  TooltipHTML,
			Style: map[string]string{"color": "white"},
		},
	}
}
