package exporter

import (
	"strconv"
	"time"

	"fracfocus/pkg/contracts/domain"
)

// JobHeaders is the header row of the jobs table.
var JobHeaders = []string{
	"JobStartDate", "JobEndDate", "APINumber",
	"TotalBaseNonWaterVolume", "TVD", "TotalBaseWaterVolume",
	"Latitude", "Longitude",
}

// SummaryHeaders is the header row of the volume summary table.
var SummaryHeaders = []string{"Column", "Count", "Min", "Q1", "Median", "Q3", "Max", "Mean"}

// FormatFloat renders v without trailing zeros, and NaN as an empty cell.
func FormatFloat(v float64) string {
	if domain.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDate renders t as YYYY-MM-DD, and the zero time as an empty cell.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// JobRecords converts jobs to CSV records aligned with JobHeaders.
func JobRecords(jobs []domain.FracJob) [][]string {
	records := make([][]string, len(jobs))
	for i, j := range jobs {
		records[i] = []string{
			FormatDate(j.JobStart),
			FormatDate(j.JobEnd),
			j.APINumber,
			FormatFloat(j.TotalBaseNonWaterVolume),
			FormatFloat(j.TVD),
			FormatFloat(j.TotalBaseWaterVolume),
			FormatFloat(j.Latitude),
			FormatFloat(j.Longitude),
		}
	}
	return records
}

// PivotHeaders returns the header row of the pivot table: the quarter
// column followed by one column per supplier.
func PivotHeaders(p *domain.UsagePivot) []string {
	return append([]string{"JobStartDateQuarter"}, p.Suppliers...)
}

// PivotRecords converts the pivot to one record per quarter.
func PivotRecords(p *domain.UsagePivot) [][]string {
	records := make([][]string, len(p.Quarters))
	for i, q := range p.Quarters {
		rec := make([]string, 0, len(p.Suppliers)+1)
		rec = append(rec, q.String())
		for _, c := range p.Counts[i] {
			rec = append(rec, strconv.Itoa(c))
		}
		records[i] = rec
	}
	return records
}

// SummaryRecords converts volume summaries to records aligned with
// SummaryHeaders.
func SummaryRecords(summaries []domain.VolumeSummary) [][]string {
	records := make([][]string, len(summaries))
	for i, s := range summaries {
		records[i] = []string{
			s.Column,
			strconv.Itoa(s.Count),
			FormatFloat(s.Min),
			FormatFloat(s.Q1),
			FormatFloat(s.Median),
			FormatFloat(s.Q3),
			FormatFloat(s.Max),
			FormatFloat(s.Mean),
		}
	}
	return records
}
