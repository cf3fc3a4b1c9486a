// Package render turns derived views into renderer inputs: a deck.gl column
// layer spec and GeoJSON for the 3D map, a line chart for the time series,
// and currency-formatted tables for the optional data views.
package render
