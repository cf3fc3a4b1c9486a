package render

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD formats v as whole dollars with thousands separators, e.g. "$1,234,568".
func FormatUSD(v float64) string {
	r := math.Round(v)
	if r < 0 {
		return "-$" + usd.Sprintf("%d", int64(-r))
	}
	return "$" + usd.Sprintf("%d", int64(r))
}
