package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

const header = "RegionID,SizeRank,RegionName,RegionType,StateName,State,City,Metro,CountyName,latitude,longitude,05-31-2023,06-30-2023,07-31-2023\n"

const cleanCSV = header +
	`1,1,Hyde Park,neighborhood,TX,TX,Austin,"Austin, TX",Travis County,30.30,-97.73,510000,520001,530000` + "\n" +
	`2,2,Mueller,neighborhood,TX,TX,Austin,"Austin, TX",Travis County,30.29,-97.70,600000,,612000` + "\n" +
	`3,3,Midtown,neighborhood,GA,GA,Atlanta,"Atlanta, GA",Fulton County,33.78,-84.38,450000,455000,460000` + "\n"

const problemCSV = "RegionID,SizeRank,RegionName,RegionType,StateName,State,City,Metro,CountyName,latitude,longitude,04-30-2023,06-30-2023\n" +
	`1,1,Downtown,neighborhood,TX,TX,Austin,"Austin, TX",Travis County,30.27,-97.74,700000,710000` + "\n" +
	`2,2,Downtown,neighborhood,TX,TX,Round Rock,"Austin, TX",Williamson County,30.51,-97.68,300000,310000` + "\n" +
	`3,3,Nowhere,neighborhood,TX,TX,Austin,"Austin, TX",Travis County,,,1,2` + "\n" +
	`4,4,Empty,neighborhood,TX,TX,Austin,"Austin, TX",Travis County,30.20,-97.70,,` + "\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zhvi.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command in-process and returns combined stdout and stderr.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStates(t *testing.T) {
	out, err := execute(t, "states", "--file", writeCSV(t, cleanCSV))
	require.NoError(t, err)
	assert.Equal(t, "GA\nTX\n", out)
}

func TestMetros(t *testing.T) {
	out, err := execute(t, "metros", "--file", writeCSV(t, cleanCSV), "--state", "TX")
	require.NoError(t, err)
	assert.Equal(t, "Austin, TX\n", out)
}

func TestMetros_UnknownState(t *testing.T) {
	_, err := execute(t, "metros", "--file", writeCSV(t, cleanCSV), "--state", "ZZ")
	require.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestMetros_StateRequired(t *testing.T) {
	_, err := execute(t, "metros", "--file", writeCSV(t, cleanCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state")
}

func TestNeighborhoods(t *testing.T) {
	out, err := execute(t, "neighborhoods", "--file", writeCSV(t, cleanCSV), "--state", "TX", "--metro", "Austin, TX")
	require.NoError(t, err)
	assert.Equal(t, "Hyde Park\nMueller\n", out)
}

func TestMissingFile(t *testing.T) {
	_, err := execute(t, "states", "--file", filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestSnapshot_DefaultsToLatestDate(t *testing.T) {
	out, err := execute(t, "snapshot", "--file", writeCSV(t, cleanCSV), "--state", "TX")
	require.NoError(t, err)

	assert.Contains(t, out, "Austin, TX, July 2023")
	assert.Contains(t, out, "Average ZHVI across all neighborhoods: $571,000")
	assert.Contains(t, out, "$530,000")
	assert.Contains(t, out, "$612,000")
}

func TestSnapshot_DropsMissingValues(t *testing.T) {
	out, err := execute(t, "snapshot", "--file", writeCSV(t, cleanCSV),
		"--state", "TX", "--metro", "Austin, TX", "--date", "2023-06", "--format", "csv")
	require.NoError(t, err)

	assert.Contains(t, out, `Hyde Park,Austin,Travis County,"$520,001"`)
	assert.NotContains(t, out, "Mueller")
	assert.NotContains(t, out, "Average ZHVI across", "machine formats carry only the table")
}

func TestSnapshot_DateOutsideAxis(t *testing.T) {
	_, err := execute(t, "snapshot", "--file", writeCSV(t, cleanCSV), "--state", "TX", "--date", "1999-01")
	require.ErrorIs(t, err, domain.ErrDateNotFound)
}

func TestSnapshot_BadFlags(t *testing.T) {
	path := writeCSV(t, cleanCSV)
	tests := []struct {
		name string
		args []string
	}{
		{"date layout", []string{"--date", "06/2023"}},
		{"format", []string{"--format", "xml"}},
		{"rounding", []string{"--rounding", "bankers"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"snapshot", "--file", path, "--state", "TX"}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
		})
	}
}

func TestSnapshot_GeoJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "snapshot.json")
	_, err := execute(t, "snapshot", "--file", writeCSV(t, cleanCSV), "--state", "GA", "--geojson", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 1)
}

func TestSeries(t *testing.T) {
	out, err := execute(t, "series", "--file", writeCSV(t, cleanCSV),
		"--metro", "Austin, TX", "--neighborhood", "Hyde Park", "--neighborhood", "Mueller", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date,Hyde Park,Mueller", lines[0])
	assert.Equal(t, `2023-07-31,"$530,000","$612,000"`, lines[1])
	assert.Equal(t, `2023-06-30,"$520,001",`, lines[2])
}

func TestSeries_AmbiguousNeighborhood(t *testing.T) {
	out, err := execute(t, "series", "--file", writeCSV(t, problemCSV),
		"--metro", "Austin, TX", "--neighborhood", "Downtown")
	require.NoError(t, err)

	assert.Contains(t, out, "unable to add Downtown in Austin")
	assert.Contains(t, out, "unable to add Downtown in Round Rock")
	assert.Contains(t, out, "No data available for this selection")
}

func TestSeries_RejectsUnknownSelection(t *testing.T) {
	path := writeCSV(t, cleanCSV)
	tests := []struct {
		name string
		args []string
	}{
		{"metro", []string{"--metro", "Austin TX", "--neighborhood", "Hyde Park"}},
		{"neighborhood", []string{"--metro", "Austin, TX", "--neighborhood", "Hyde Prak"}},
		{"neighborhood from another metro", []string{"--metro", "Austin, TX", "--neighborhood", "Midtown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"series", "--file", path}, tt.args...)
			out, err := execute(t, args...)
			require.ErrorIs(t, err, domain.ErrInvalidSelection)
			assert.NotContains(t, out, "No data available")
		})
	}
}

func TestSeries_Chart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.svg")
	_, err := execute(t, "series", "--file", writeCSV(t, cleanCSV),
		"--metro", "Austin, TX", "--neighborhood", "Hyde Park", "--chart", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestSeries_BadChartExtension(t *testing.T) {
	_, err := execute(t, "series", "--file", writeCSV(t, cleanCSV),
		"--metro", "Austin, TX", "--neighborhood", "Hyde Park", "--chart", "out.gif")
	require.Error(t, err)
}

func TestValidate_Clean(t *testing.T) {
	out, err := execute(t, "validate", "--strict", "--file", writeCSV(t, cleanCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "Rows: 3 read, 3 kept, 0 dropped")
	assert.Contains(t, out, "Dates: 3 columns, 05-31-2023 to 07-31-2023")
	assert.Contains(t, out, "All checks passed.")
	assert.NotContains(t, out, "FAIL")
}

func TestValidate_Problems(t *testing.T) {
	path := writeCSV(t, problemCSV)

	out, err := execute(t, "validate", "--file", path)
	require.NoError(t, err, "problems only fail under --strict")

	assert.Contains(t, out, "1 rows dropped without latitude or longitude")
	assert.Contains(t, out, "no column for May 2023")
	assert.Contains(t, out, "Downtown appears 2 times in Austin, TX (Austin (TX), Round Rock (TX))")
	assert.Contains(t, out, "Empty in Austin, TX has no value at any date")
	assert.Contains(t, out, "Checks reported problems.")

	_, err = execute(t, "validate", "--strict", "--file", path)
	require.ErrorIs(t, err, errValidationFailed)
}

func TestValidatePhases(t *testing.T) {
	tbl, err := domain.BuildTable(
		[]string{"RegionName", "State", "City", "Metro", "CountyName", "latitude", "longitude", "06-30-2023"},
		[][]string{{"A", "S", "C", "X", "K", "10", "20", "1"}},
	)
	require.NoError(t, err)

	for _, p := range validatePhases(tbl) {
		assert.True(t, p.passed(), p.name)
	}
}
