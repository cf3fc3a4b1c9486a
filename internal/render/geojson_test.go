package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

func TestFeatureCollection(t *testing.T) {
	fc, err := FeatureCollection(testSnapshot())
	require.NoError(t, err)

	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Hyde Park", fc.Features[0].ID)
	assert.Equal(t, []float64{-97.73, 30.30}, fc.Features[0].Geometry.FlatCoords())
	assert.Equal(t, int64(520001), fc.Features[0].Properties["zhvi"])
	assert.Equal(t, "$520,001", fc.Features[0].Properties["zhvi_label"])

	require.NotNil(t, fc.BBox)
	assert.InDelta(t, -97.73, fc.BBox.Min(0), 1e-9)
	assert.InDelta(t, -97.70, fc.BBox.Max(0), 1e-9)
}

func TestMarshalFeatureCollection(t *testing.T) {
	data, err := MarshalFeatureCollection(testSnapshot())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
	features := doc["features"].([]any)
	require.Len(t, features, 2)
	geometry := features[1].(map[string]any)["geometry"].(map[string]any)
	assert.Equal(t, "Point", geometry["type"])
	assert.Equal(t, []any{-97.70, 30.30}, geometry["coordinates"])
}

func TestFeatureCollection_Empty(t *testing.T) {
	fc, err := FeatureCollection(domain.Snapshot{Rows: []domain.SnapshotRow{}})
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
	assert.Nil(t, fc.BBox)
}
