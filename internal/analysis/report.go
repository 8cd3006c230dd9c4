package analysis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"fracfocus/pkg/contracts/domain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)
var numberStyle = cellStyle.Align(lipgloss.Right)

// PivotTable renders the usage pivot as a text table with one row per
// quarter, one column per supplier and a closing totals row.
func PivotTable(p *domain.UsagePivot) string {
	if p.Empty() {
		return "no supplier reached the usage threshold\n"
	}

	rows := make([][]string, 0, len(p.Quarters)+1)
	for i, q := range p.Quarters {
		row := []string{q.String()}
		for _, c := range p.Counts[i] {
			row = append(row, strconv.Itoa(c))
		}
		rows = append(rows, row)
	}
	totals := []string{"Total"}
	for _, t := range p.Totals() {
		totals = append(totals, humanize.Comma(int64(t)))
	}
	rows = append(rows, totals)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append([]string{"Quarter"}, p.Suppliers...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
	return t.String() + "\n"
}

// WriteReport writes the run summary followed by the pivot table.
func WriteReport(w io.Writer, r *Result) error {
	if _, err := fmt.Fprintf(w, "Run %s: %s rows read, %s kept, %s jobs, %s vendor uses\n",
		r.RunID,
		humanize.Comma(int64(r.TotalRows)),
		humanize.Comma(int64(r.FilteredRows)),
		humanize.Comma(int64(len(r.Jobs))),
		humanize.Comma(int64(r.VendorUses))); err != nil {
		return err
	}
	for _, s := range r.Summaries {
		if _, err := fmt.Fprintf(w, "%s: n=%d median=%s IQR=%s max=%s\n",
			s.Column, s.Count,
			humanize.Commaf(s.Median), humanize.Commaf(s.IQR()), humanize.Commaf(s.Max)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, PivotTable(r.Pivot))
	return err
}
