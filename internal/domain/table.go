package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Source column names.
const (
	ColRegionID   = "RegionID"
	ColSizeRank   = "SizeRank"
	ColRegionType = "RegionType"
	ColRegionName = "RegionName"
	ColStateName  = "StateName"
	ColState      = "State"
	ColCity       = "City"
	ColMetro      = "Metro"
	ColCountyName = "CountyName"
	ColLatitude   = "latitude"
	ColLongitude  = "longitude"
)

// requiredColumns must all be present in the source header, in this report order.
var requiredColumns = []string{
	ColRegionName, ColState, ColCity, ColMetro, ColCountyName, ColLatitude, ColLongitude,
}

// droppedColumns are identifiers the dashboard never displays.
var droppedColumns = map[string]bool{
	ColRegionID:   true,
	ColSizeRank:   true,
	ColRegionType: true,
	ColStateName:  true,
}

// NullFloat is a float that may be missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// NeighborhoodRecord is one normalized row: a neighborhood's identity, its
// location, and its value at every date of the table's axis.
type NeighborhoodRecord struct {
	Region    string
	State     string
	City      string
	County    string
	Metro     string
	Latitude  float64
	Longitude float64
	Values    []NullFloat
}

// LoadStats summarizes what normalization kept and discarded.
type LoadStats struct {
	RowsRead         int
	RowsKept         int
	DroppedNoLatLon  int
	DroppedNoMetro   int
	DroppedColumns   []string
	DateColumnsCount int
}

// RowsDropped is the number of source rows left out of the table.
func (s LoadStats) RowsDropped() int { return s.RowsRead - s.RowsKept }

// Table is the immutable normalized dataset. Callers must not modify its
// slices; every derived view copies what it needs.
type Table struct {
	Dates   DateAxis
	Headers []string // raw date headers, parallel to Dates
	Records []NeighborhoodRecord
	Stats   LoadStats
}

// BuildTable normalizes a header row and its data rows. It drops rows without
// coordinates or a metro, drops identifier columns, and renames RegionName and
// CountyName to Region and County. rows is not modified.
func BuildTable(header []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(header))
	var dateCols []int
	var dateHeaders []string
	var dropped []string
	for i, h := range header {
		h = strings.TrimSpace(h)
		// pandas writes the index column with an empty header.
		if h == "" && i == 0 {
			continue
		}
		switch {
		case droppedColumns[h]:
			dropped = append(dropped, h)
		case isMetadataColumn(h):
			index[h] = i
		default:
			dateCols = append(dateCols, i)
			dateHeaders = append(dateHeaders, h)
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(dateCols) == 0 {
		missing = append(missing, "<date columns>")
	}
	if len(missing) > 0 {
		return nil, &DataIntegrityError{Missing: missing}
	}

	axis, err := ParseDateAxis(dateHeaders)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Dates:   axis,
		Headers: dateHeaders,
		Records: make([]NeighborhoodRecord, 0, len(rows)),
		Stats: LoadStats{
			RowsRead:         len(rows),
			DroppedColumns:   dropped,
			DateColumnsCount: len(dateCols),
		},
	}

	for n, row := range rows {
		line := n + 2
		cell := func(col string) string { return field(row, index[col]) }

		lat, latOK, err := parseCell(cell(ColLatitude))
		if err != nil {
			return nil, &DataIntegrityError{Line: line, Column: ColLatitude, Value: cell(ColLatitude)}
		}
		lon, lonOK, err := parseCell(cell(ColLongitude))
		if err != nil {
			return nil, &DataIntegrityError{Line: line, Column: ColLongitude, Value: cell(ColLongitude)}
		}
		if !latOK || !lonOK {
			t.Stats.DroppedNoLatLon++
			continue
		}
		metro := strings.TrimSpace(cell(ColMetro))
		if isMissing(metro) {
			t.Stats.DroppedNoMetro++
			continue
		}

		values := make([]NullFloat, len(dateCols))
		for j, col := range dateCols {
			raw := field(row, col)
			v, ok, err := parseCell(raw)
			if err != nil {
				return nil, &DataIntegrityError{Line: line, Column: dateHeaders[j], Value: raw}
			}
			values[j] = NullFloat{Float64: v, Valid: ok}
		}

		t.Records = append(t.Records, NeighborhoodRecord{
			Region:    strings.TrimSpace(cell(ColRegionName)),
			State:     strings.TrimSpace(cell(ColState)),
			City:      strings.TrimSpace(cell(ColCity)),
			County:    strings.TrimSpace(cell(ColCountyName)),
			Metro:     metro,
			Latitude:  lat,
			Longitude: lon,
			Values:    values,
		})
	}
	t.Stats.RowsKept = len(t.Records)
	return t, nil
}

func isMetadataColumn(h string) bool {
	for _, c := range requiredColumns {
		if c == h {
			return true
		}
	}
	return false
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isMissing(s string) bool {
	switch s {
	case "", "NaN", "nan", "NA", "N/A":
		return true
	default:
		return false
	}
}

// errInfiniteCell marks a cell that parses as ±Inf.
var errInfiniteCell = errors.New("infinite value")

// parseCell parses a numeric cell. ok is false for a missing value; err is
// set for text that is neither missing nor a finite number.
func parseCell(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	if math.IsInf(v, 0) {
		return 0, false, errInfiniteCell
	}
	return v, true, nil
}
