package render

import (
	"time"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

var (
	may2023  = time.Date(2023, time.May, 31, 0, 0, 0, 0, time.UTC)
	june2023 = time.Date(2023, time.June, 30, 0, 0, 0, 0, time.UTC)
	july2023 = time.Date(2023, time.July, 31, 0, 0, 0, 0, time.UTC)
)

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		State: "TX",
		Metro: "Austin, TX",
		Date:  june2023,
		Rows: []domain.SnapshotRow{
			{Region: "Hyde Park", City: "Austin", County: "Travis County", Latitude: 30.30, Longitude: -97.73, Value: 520001},
			{Region: "Mueller", City: "Austin", County: "Travis County", Latitude: 30.30, Longitude: -97.70, Value: 1612000},
		},
	}
}

func testSeries() domain.SeriesTable {
	return domain.SeriesTable{
		Metro: "Austin, TX",
		Dates: []time.Time{may2023, june2023, july2023},
		Columns: []domain.SeriesColumn{
			{Region: "Hyde Park", Values: []domain.NullFloat{
				{Float64: 515000.6, Valid: true},
				{Float64: 520000.5, Valid: true},
				{Float64: 525000, Valid: true},
			}},
			{Region: "Mueller", Values: []domain.NullFloat{
				{Float64: 600000, Valid: true},
				{},
				{Float64: 612000, Valid: true},
			}},
		},
	}
}
