package render

import (
	"fmt"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

// Static image limits: the pitch ceiling of the Static Images API and a
// marker cap that keeps the request URL under its length limit.
const (
	StaticMapWidth   = 800
	StaticMapHeight  = 600
	MaxStaticPitch   = 60
	MaxStaticMarkers = 100
)

// StaticMapRequest builds the pre-rendered equivalent of the 3D map: one
// marker per neighborhood colored like its column, centered on the
// centroid. Only the first MaxStaticMarkers rows get markers.
func StaticMapRequest(snap domain.Snapshot, sum domain.SnapshotSummary, style string) domain.StaticMapRequest {
	n := min(len(snap.Rows), MaxStaticMarkers)
	markers := make([]domain.Marker, n)
	for i, r := range snap.Rows[:n] {
		markers[i] = domain.Marker{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Color:     hexColor(ColumnColor(r.Value)),
		}
	}
	return domain.StaticMapRequest{
		Style:     style,
		Latitude:  sum.Latitude,
		Longitude: sum.Longitude,
		Zoom:      DefaultZoom,
		Pitch:     min(DefaultPitch, MaxStaticPitch),
		Width:     StaticMapWidth,
		Height:    StaticMapHeight,
		Markers:   markers,
	}
}

func hexColor(c [3]int) string {
	return fmt.Sprintf("%02x%02x%02x", c[0], c[1], c[2])
}
