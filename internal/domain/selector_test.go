package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateFunctions(t *testing.T) {
	tbl := testTable(t)

	assert.Equal(t, []string{"GA", "TX"}, States(tbl))
	assert.Equal(t, []string{"Austin, TX", "Dallas, TX"}, Metros(tbl, "TX"))
	assert.Equal(t, []string{"Georgetown", "Hyde Park", "Mueller"}, Neighborhoods(tbl, "TX", "Austin, TX"))
	assert.Empty(t, Metros(tbl, "ZZ"))
	assert.Equal(t, []string{"Georgetown", "Hyde Park", "Mueller"}, MetroNeighborhoods(tbl, "Austin, TX"))
	assert.Empty(t, MetroNeighborhoods(tbl, "Nowhere, ZZ"))

	earliest, latest := DateRange(tbl)
	assert.Equal(t, time.Date(2023, time.April, 30, 0, 0, 0, 0, time.UTC), earliest)
	assert.Equal(t, time.Date(2023, time.June, 30, 0, 0, 0, 0, time.UTC), latest)
}

func TestNewSelector_Defaults(t *testing.T) {
	tbl := testTable(t)
	s := NewSelector(tbl)

	sel := s.Selection()
	assert.Equal(t, "GA", sel.State)
	assert.Equal(t, "Atlanta, GA", sel.Metro)
	assert.Equal(t, tbl.Dates.Latest(), sel.Date)
	assert.Empty(t, sel.Neighborhoods)

	c := s.Candidates()
	assert.Equal(t, []string{"Atlanta, GA"}, c.Metros)
	assert.Equal(t, []string{"Midtown"}, c.Neighborhoods)
}

func TestSelector_StateChangeResetsMetro(t *testing.T) {
	tbl := testTable(t)
	s := NewSelector(tbl)

	require.NoError(t, s.SelectState("TX"))
	sel := s.Selection()
	assert.Equal(t, "TX", sel.State)
	assert.Equal(t, "Austin, TX", sel.Metro, "metro resets to the first metro of the new state")
	assert.Contains(t, Metros(tbl, sel.State), sel.Metro)

	require.NoError(t, s.SelectMetro("Dallas, TX"))
	require.NoError(t, s.SelectState("GA"))
	assert.Equal(t, "Atlanta, GA", s.Selection().Metro)
}

func TestSelector_StateChangeKeepsMetroValidInBothStates(t *testing.T) {
	header := []string{"RegionName", "State", "City", "Metro", "CountyName", "latitude", "longitude", "06-30-2023"}
	tbl, err := BuildTable(header, [][]string{
		{"Jersey City", "NJ", "Jersey City", "New York, NY", "Hudson", "40.7", "-74.0", "600000"},
		{"Harlem", "NY", "New York", "New York, NY", "New York", "40.8", "-73.9", "700000"},
		{"Albany", "NY", "Albany", "Albany, NY", "Albany", "42.6", "-73.7", "250000"},
	})
	require.NoError(t, err)

	s := NewSelector(tbl)
	require.NoError(t, s.SelectState("NY"))
	require.NoError(t, s.SelectMetro("New York, NY"))
	require.NoError(t, s.SelectState("NJ"))

	assert.Equal(t, "New York, NY", s.Selection().Metro)
}

func TestSelector_UpstreamChangePrunesNeighborhoods(t *testing.T) {
	tbl := testTable(t)
	s := NewSelector(tbl)
	require.NoError(t, s.SelectState("TX"))
	require.NoError(t, s.SelectNeighborhoods([]string{"Hyde Park", "Mueller"}))

	require.NoError(t, s.SelectMetro("Dallas, TX"))
	assert.Empty(t, s.Selection().Neighborhoods)
}

func TestSelector_RejectsInvalidValues(t *testing.T) {
	tbl := testTable(t)
	s := NewSelector(tbl)

	require.ErrorIs(t, s.SelectState("ZZ"), ErrInvalidSelection)
	require.ErrorIs(t, s.SelectMetro("Austin, TX"), ErrInvalidSelection, "Austin is not in GA")
	require.ErrorIs(t, s.SelectNeighborhoods([]string{"Hyde Park"}), ErrInvalidSelection)
	require.ErrorIs(t, s.SelectDate(time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)), ErrDateNotFound)

	sel := s.Selection()
	assert.Equal(t, "GA", sel.State)
	assert.Equal(t, "Atlanta, GA", sel.Metro)
}

func TestSelector_SelectDateSnapsToAxis(t *testing.T) {
	tbl := testTable(t)
	s := NewSelector(tbl)

	require.NoError(t, s.SelectDate(time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2023, time.May, 31, 0, 0, 0, 0, time.UTC), s.Selection().Date)
}

func TestSelector_SelectNeighborhoodsDeduplicates(t *testing.T) {
	tbl := testTable(t)
	s := NewSelector(tbl)
	require.NoError(t, s.SelectState("TX"))

	require.NoError(t, s.SelectNeighborhoods([]string{"Mueller", "Hyde Park", "Mueller"}))
	assert.Equal(t, []string{"Mueller", "Hyde Park"}, s.Selection().Neighborhoods)
}

func TestSelector_SelectionIsACopy(t *testing.T) {
	tbl := testTable(t)
	s := NewSelector(tbl)
	require.NoError(t, s.SelectState("TX"))
	require.NoError(t, s.SelectNeighborhoods([]string{"Mueller"}))

	sel := s.Selection()
	sel.Neighborhoods[0] = "tampered"

	assert.Equal(t, []string{"Mueller"}, s.Selection().Neighborhoods)
}

func TestSelector_CloneIsIndependent(t *testing.T) {
	tbl := testTable(t)
	s := NewSelector(tbl)
	require.NoError(t, s.SelectState("TX"))

	c := s.Clone()
	require.NoError(t, c.SelectMetro("Dallas, TX"))

	assert.Equal(t, "Austin, TX", s.Selection().Metro)
	assert.Equal(t, "Dallas, TX", c.Selection().Metro)
}
