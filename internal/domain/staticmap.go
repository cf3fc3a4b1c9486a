package domain

import "context"

// Marker is one pin on a static map image.
type Marker struct {
	Latitude  float64
	Longitude float64
	Color     string // hex RGB without '#'
}

// StaticMapRequest describes a pre-rendered map image centered on a snapshot.
type StaticMapRequest struct {
	Style     string
	Latitude  float64
	Longitude float64
	Zoom      float64
	Pitch     float64
	Width     int
	Height    int
	Markers   []Marker
}

// StaticMapper renders a StaticMapRequest to image bytes.
type StaticMapper interface {
	StaticMap(ctx context.Context, req StaticMapRequest) ([]byte, error)
}
