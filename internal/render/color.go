package render

// Column styling: elevation is value/100 and the red channel is value/3500
// (saturating at 255), green and blue fixed.
const (
	ElevationScale = 1.0 / 100
	redDivisor     = 3500
	columnGreen    = 200
	columnBlue     = 50
)

// ColumnColor returns the RGB fill for a value. Red grows with value until it
// saturates, so color never decreases as value increases.
func ColumnColor(value int64) [3]int {
	r := value / redDivisor
	if r < 0 {
		r = 0
	}
	if r > 255 {
		r = 255
	}
	return [3]int{int(r), columnGreen, columnBlue}
}

// ColumnElevation returns the extruded height for a value.
func ColumnElevation(value int64) float64 {
	if value < 0 {
		return 0
	}
	return float64(value) * ElevationScale
}
