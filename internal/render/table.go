package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
)

// TableFormat controls how a data view is rendered.
type TableFormat string

const (
	TableText     TableFormat = "text"
	TableMarkdown TableFormat = "markdown"
	TableHTML     TableFormat = "html"
	TableCSV      TableFormat = "csv"
)

// ParseTableFormat accepts text, markdown, html or csv; empty means text.
func ParseTableFormat(s string) (TableFormat, error) {
	switch f := TableFormat(strings.ToLower(s)); f {
	case "":
		return TableText, nil
	case TableText, TableMarkdown, TableHTML, TableCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown table format %q", s)
	}
}

// ContentType is the HTTP media type of the rendered table.
func (f TableFormat) ContentType() string {
	switch f {
	case TableMarkdown:
		return "text/markdown; charset=utf-8"
	case TableHTML:
		return "text/html; charset=utf-8"
	case TableCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// SeriesDateLayout is how dates are shown in the series table.
const SeriesDateLayout = "2006-01-02"

// SnapshotTable renders the snapshot rows with a currency column and the
// neighborhood average as footer.
func SnapshotTable(snap domain.Snapshot, f TableFormat) string {
	w := newWriter(f)
	w.AppendHeader(table.Row{"Region", "City", "County", "ZHVI"})
	for _, r := range snap.Rows {
		w.AppendRow(table.Row{r.Region, r.City, r.County, FormatUSD(float64(r.Value))})
	}
	if sum, err := snap.Summary(); err == nil {
		w.AppendFooter(table.Row{"", "", "Average", FormatUSD(sum.Mean)})
	}
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight}})
	return render(w, f)
}

// SeriesTableView renders the series newest first: one date column then one
// currency column per neighborhood. Missing values are blank.
func SeriesTableView(st domain.SeriesTable, f TableFormat) string {
	desc := st.Descending()
	w := newWriter(f)

	header := table.Row{"Date"}
	configs := make([]table.ColumnConfig, 0, len(desc.Columns))
	for i, col := range desc.Columns {
		header = append(header, col.Region)
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	w.AppendHeader(header)

	for i, d := range desc.Dates {
		row := table.Row{d.Format(SeriesDateLayout)}
		for _, col := range desc.Columns {
			if v := col.Values[i]; v.Valid {
				row = append(row, FormatUSD(v.Float64))
			} else {
				row = append(row, "")
			}
		}
		w.AppendRow(row)
	}
	w.SetColumnConfigs(configs)
	return render(w, f)
}

func newWriter(f TableFormat) table.Writer {
	w := table.NewWriter()
	if f == TableText {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func render(w table.Writer, f TableFormat) string {
	switch f {
	case TableMarkdown:
		return w.RenderMarkdown()
	case TableHTML:
		return w.RenderHTML()
	case TableCSV:
		return w.RenderCSV()
	default:
		return w.Render()
	}
}
