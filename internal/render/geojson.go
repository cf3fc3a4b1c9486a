package render

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

// FeatureCollection converts a snapshot to GeoJSON points carrying the
// column styling as properties. The collection bbox covers every point.
func FeatureCollection(snap domain.Snapshot) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(snap.Rows))}
	if snap.Empty() {
		return fc, nil
	}

	all := geom.NewMultiPoint(geom.XY)
	for _, r := range snap.Rows {
		pt := geom.NewPointFlat(geom.XY, []float64{r.Longitude, r.Latitude})
		if err := all.Push(pt); err != nil {
			return nil, fmt.Errorf("add point %s: %w", r.Region, err)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       r.Region,
			Geometry: pt,
			Properties: map[string]any{
				"region":     r.Region,
				"city":       r.City,
				"county":     r.County,
				"zhvi":       r.Value,
				"zhvi_label": FormatUSD(float64(r.Value)),
				"elevation":  ColumnElevation(r.Value),
				"fill_color": ColumnColor(r.Value),
			},
		})
	}
	fc.BBox = all.Bounds()
	return fc, nil
}

// MarshalFeatureCollection returns the GeoJSON document for a snapshot.
func MarshalFeatureCollection(snap domain.Snapshot) ([]byte, error) {
	fc, err := FeatureCollection(snap)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fc)
}
