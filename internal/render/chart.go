package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

// ChartFormat selects the image encoding of a rendered chart.
type ChartFormat string

const (
	ChartPNG ChartFormat = "png"
	ChartSVG ChartFormat = "svg"
)

// ParseChartFormat accepts "png" or "svg".
func ParseChartFormat(s string) (ChartFormat, error) {
	switch f := ChartFormat(strings.ToLower(s)); f {
	case ChartPNG, ChartSVG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown chart format %q", s)
	}
}

// Chart dimensions and axis labels.
const (
	ChartWidth  = 1024
	ChartHeight = 480
	xAxisName   = "Time"
	yAxisName   = "Price (USD)"
	tickLayout  = "Jan 2006"
)

// RenderSeriesChart draws one line per neighborhood column over the date
// axis. Missing values break the line rather than being interpolated.
func RenderSeriesChart(w io.Writer, st domain.SeriesTable, format ChartFormat) error {
	series, yMin, yMax := chartSeries(st)
	if len(series) == 0 {
		return &domain.NoDataError{View: "series", Metro: st.Metro}
	}

	ch := chart.Chart{
		Width:      ChartWidth,
		Height:     ChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           xAxisName,
			ValueFormatter: chart.TimeValueFormatterWithFormat(tickLayout),
			Range:          xRange(st.Dates),
		},
		YAxis: chart.YAxis{
			Name: yAxisName,
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return FormatUSD(f)
				}
				return ""
			},
			Range: yRange(yMin, yMax),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	provider := chart.PNG
	if format == ChartSVG {
		provider = chart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s chart: %w", format, err)
	}
	return nil
}

// chartSeries splits every column into runs of consecutive valid values.
// The first run of a column carries its name so the legend lists each
// neighborhood once; later runs are unnamed but share the color.
func chartSeries(st domain.SeriesTable) (series []chart.Series, yMin, yMax float64) {
	first := true
	for c, col := range st.Columns {
		color := chart.GetDefaultColor(c)
		named := false
		for _, run := range validRuns(col.Values) {
			xs := make([]time.Time, 0, run[1]-run[0])
			ys := make([]float64, 0, run[1]-run[0])
			for i := run[0]; i < run[1]; i++ {
				v := col.Values[i].Float64
				xs = append(xs, st.Dates[i])
				ys = append(ys, v)
				if first || v < yMin {
					yMin = v
				}
				if first || v > yMax {
					yMax = v
				}
				first = false
			}

			style := chart.Style{StrokeColor: color, StrokeWidth: 2}
			if len(xs) == 1 {
				// A lone point has no segment to draw.
				style = chart.Style{StrokeWidth: 0, DotColor: color, DotWidth: 4}
				xs = append(xs, xs[0])
				ys = append(ys, ys[0])
			}

			ts := chart.TimeSeries{XValues: xs, YValues: ys, Style: style}
			if !named {
				ts.Name = col.Region
				named = true
			}
			series = append(series, ts)
		}
	}
	return series, yMin, yMax
}

// validRuns returns [start, end) index pairs of consecutive valid values.
func validRuns(values []domain.NullFloat) [][2]int {
	var runs [][2]int
	start := -1
	for i, v := range values {
		switch {
		case v.Valid && start < 0:
			start = i
		case !v.Valid && start >= 0:
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(values)})
	}
	return runs
}

func xRange(dates []time.Time) *chart.ContinuousRange {
	if len(dates) == 0 {
		return nil
	}
	lo, hi := dates[0], dates[len(dates)-1]
	if !hi.After(lo) {
		hi = lo.AddDate(0, 1, 0)
	}
	return &chart.ContinuousRange{Min: chart.TimeToFloat64(lo), Max: chart.TimeToFloat64(hi)}
}

func yRange(lo, hi float64) *chart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = max(lo*0.05, 1)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
