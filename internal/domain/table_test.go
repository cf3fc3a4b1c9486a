package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = []string{
	"RegionID", "SizeRank", "RegionName", "RegionType", "StateName", "State", "City", "Metro", "CountyName",
	"latitude", "longitude", "04-30-2023", "05-31-2023", "06-30-2023",
}

func row(region, state, city, metro, county, lat, lon string, values ...string) []string {
	r := []string{"1", "1", region, "neighborhood", "", state, city, metro, county, lat, lon}
	return append(r, values...)
}

// testTable builds a small two-state table used across domain tests.
func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := BuildTable(testHeader, [][]string{
		row("Hyde Park", "TX", "Austin", "Austin, TX", "Travis County", "30.30", "-97.73", "510000.4", "515000.6", "520000.5"),
		row("Mueller", "TX", "Austin", "Austin, TX", "Travis County", "30.29", "-97.70", "", "610000", "612000"),
		row("Downtown", "TX", "Dallas", "Dallas, TX", "Dallas County", "32.78", "-96.80", "400000", "401000", "402000"),
		row("Georgetown", "TX", "Austin", "Austin, TX", "Travis County", "30.10", "-97.60", "300000", "NaN", ""),
		row("Midtown", "GA", "Atlanta", "Atlanta, GA", "Fulton County", "33.78", "-84.38", "450000", "455000", "460000"),
	})
	require.NoError(t, err)
	return tbl
}

func TestBuildTable(t *testing.T) {
	tbl := testTable(t)

	require.Len(t, tbl.Records, 5)
	require.Len(t, tbl.Dates, 3)
	assert.Equal(t, []string{"04-30-2023", "05-31-2023", "06-30-2023"}, tbl.Headers)

	first := tbl.Records[0]
	assert.Equal(t, "Hyde Park", first.Region)
	assert.Equal(t, "TX", first.State)
	assert.Equal(t, "Austin", first.City)
	assert.Equal(t, "Travis County", first.County)
	assert.Equal(t, "Austin, TX", first.Metro)
	assert.Equal(t, 30.30, first.Latitude)
	assert.Equal(t, -97.73, first.Longitude)
	assert.Equal(t, NullFloat{Float64: 510000.4, Valid: true}, first.Values[0])

	mueller := tbl.Records[1]
	assert.False(t, mueller.Values[0].Valid)
	assert.True(t, mueller.Values[1].Valid)

	georgetown := tbl.Records[3]
	assert.False(t, georgetown.Values[1].Valid, "NaN is missing")
	assert.False(t, georgetown.Values[2].Valid)

	assert.ElementsMatch(t, []string{"RegionID", "SizeRank", "RegionType", "StateName"}, tbl.Stats.DroppedColumns)
	assert.Equal(t, 3, tbl.Stats.DateColumnsCount)
}

func TestBuildTable_DropsRowsMissingLocationOrMetro(t *testing.T) {
	tbl, err := BuildTable(testHeader, [][]string{
		row("A", "TX", "Austin", "Austin, TX", "Travis", "30.1", "-97.1", "1", "2", "3"),
		row("NoLat", "TX", "Austin", "Austin, TX", "Travis", "", "-97.1", "1", "2", "3"),
		row("NoLon", "TX", "Austin", "Austin, TX", "Travis", "30.1", "NaN", "1", "2", "3"),
		row("NoMetro", "TX", "Austin", "", "Travis", "30.1", "-97.1", "1", "2", "3"),
	})
	require.NoError(t, err)

	require.Len(t, tbl.Records, 1)
	for _, r := range tbl.Records {
		assert.NotEmpty(t, r.Metro)
	}
	assert.Equal(t, 4, tbl.Stats.RowsRead)
	assert.Equal(t, 1, tbl.Stats.RowsKept)
	assert.Equal(t, 2, tbl.Stats.DroppedNoLatLon)
	assert.Equal(t, 1, tbl.Stats.DroppedNoMetro)
	assert.Equal(t, 3, tbl.Stats.RowsDropped())
}

func TestBuildTable_OptionalIdentifierColumnsAbsent(t *testing.T) {
	header := []string{"RegionName", "State", "City", "Metro", "CountyName", "latitude", "longitude", "06-30-2023"}
	tbl, err := BuildTable(header, [][]string{
		{"R", "S", "C", "X", "K", "10", "20", "500000"},
	})
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	assert.Empty(t, tbl.Stats.DroppedColumns)
}

func TestBuildTable_PandasIndexColumn(t *testing.T) {
	header := []string{"", "RegionName", "State", "City", "Metro", "CountyName", "latitude", "longitude", "06-30-2023"}
	tbl, err := BuildTable(header, [][]string{
		{"0", "R", "S", "C", "X", "K", "10", "20", "500000"},
	})
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, "R", tbl.Records[0].Region)
}

func TestBuildTable_MissingRequiredColumns(t *testing.T) {
	header := []string{"RegionName", "State", "City", "latitude", "06-30-2023"}
	_, err := BuildTable(header, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataIntegrity))
	var die *DataIntegrityError
	require.ErrorAs(t, err, &die)
	assert.Equal(t, []string{"Metro", "CountyName", "longitude"}, die.Missing)
}

func TestBuildTable_NoDateColumns(t *testing.T) {
	header := []string{"RegionName", "State", "City", "Metro", "CountyName", "latitude", "longitude"}
	_, err := BuildTable(header, nil)

	require.ErrorIs(t, err, ErrDataIntegrity)
	assert.Contains(t, err.Error(), "<date columns>")
}

func TestBuildTable_MalformedDateHeader(t *testing.T) {
	header := []string{"RegionName", "State", "City", "Metro", "CountyName", "latitude", "longitude", "12-31-2022", "13-01-2023"}
	_, err := BuildTable(header, nil)

	require.ErrorIs(t, err, ErrMalformedDate)
	var mde *MalformedDateError
	require.ErrorAs(t, err, &mde)
	assert.Equal(t, "13-01-2023", mde.Header)
	assert.Equal(t, 1, mde.Column)
}

func TestBuildTable_InvalidNumber(t *testing.T) {
	tests := []struct {
		name   string
		row    []string
		column string
	}{
		{"latitude", row("A", "TX", "Austin", "Austin, TX", "Travis", "north", "-97.1", "1", "2", "3"), "latitude"},
		{"longitude", row("A", "TX", "Austin", "Austin, TX", "Travis", "30.1", "west", "1", "2", "3"), "longitude"},
		{"value", row("A", "TX", "Austin", "Austin, TX", "Travis", "30.1", "-97.1", "1", "$2", "3"), "05-31-2023"},
		{"infinite value", row("A", "TX", "Austin", "Austin, TX", "Travis", "30.1", "-97.1", "1", "2", "Inf"), "06-30-2023"},
		{"infinity spelled out", row("A", "TX", "Austin", "Austin, TX", "Travis", "30.1", "-97.1", "-Infinity", "2", "3"), "04-30-2023"},
		{"infinite latitude", row("A", "TX", "Austin", "Austin, TX", "Travis", "+Inf", "-97.1", "1", "2", "3"), "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTable(testHeader, [][]string{tt.row})
			require.ErrorIs(t, err, ErrDataIntegrity)
			var die *DataIntegrityError
			require.ErrorAs(t, err, &die)
			assert.Equal(t, 2, die.Line)
			assert.Equal(t, tt.column, die.Column)
		})
	}
}

func TestBuildTable_DoesNotMutateInput(t *testing.T) {
	rows := [][]string{
		row(" Padded ", "TX", "Austin", "Austin, TX", "Travis", "30.1", "-97.1", "1", "2", "3"),
	}
	before := append([]string{}, rows[0]...)

	_, err := BuildTable(testHeader, rows)
	require.NoError(t, err)
	assert.Equal(t, before, rows[0])
}

func TestBuildTable_ShortRowTreatsMissingCellsAsEmpty(t *testing.T) {
	tbl, err := BuildTable(testHeader, [][]string{
		row("A", "TX", "Austin", "Austin, TX", "Travis", "30.1", "-97.1", "1"),
	})
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	assert.True(t, tbl.Records[0].Values[0].Valid)
	assert.False(t, tbl.Records[0].Values[2].Valid)
}
