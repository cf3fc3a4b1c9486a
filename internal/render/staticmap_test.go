package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

func TestStaticMapRequest(t *testing.T) {
	snap := testSnapshot()
	sum, err := snap.Summary()
	require.NoError(t, err)

	req := StaticMapRequest(snap, sum, "mapbox/light-v11")

	assert.Equal(t, "mapbox/light-v11", req.Style)
	assert.Equal(t, float64(MaxStaticPitch), req.Pitch)
	assert.Equal(t, float64(DefaultZoom), req.Zoom)
	require.Len(t, req.Markers, 2)
	assert.Equal(t, "94c832", req.Markers[0].Color)
	assert.Equal(t, "ffc832", req.Markers[1].Color)
}

func TestStaticMapRequest_CapsMarkers(t *testing.T) {
	rows := make([]domain.SnapshotRow, MaxStaticMarkers+20)
	for i := range rows {
		rows[i] = domain.SnapshotRow{Region: "R", Latitude: 30, Longitude: -97, Value: int64(i)}
	}
	snap := domain.Snapshot{Rows: rows}
	sum, err := snap.Summary()
	require.NoError(t, err)

	req := StaticMapRequest(snap, sum, "mapbox/light-v11")
	assert.Len(t, req.Markers, MaxStaticMarkers)
}
