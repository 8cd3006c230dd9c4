package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"fracfocus/internal/registry"
	"fracfocus/pkg/contracts/domain"
)

// DateLayouts are the date formats found in FracFocus exports, most common
// first.
var DateLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a registry date. Empty values and unknown layouts return
// the zero time together with an error.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NaN" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// startKeys compares job starts by the instant they denote, so
// "1/15/2018" and "1/15/2018 12:00:00 AM" are the same job. Unparseable
// starts are compared as written.
func startKeys(cols registry.Columns) map[string]registry.KeyFunc {
	return map[string]registry.KeyFunc{
		cols.JobStart: func(cell string) string {
			t, err := ParseDate(cell)
			if err != nil {
				return cell
			}
			return t.Format(time.RFC3339)
		},
	}
}

// ParseFloat parses a registry number, tolerating thousands separators.
// Missing or malformed values return NaN.
func ParseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// rows iterates the records of df as maps from header to cell.
func rows(df dataframe.DataFrame) []map[string]string {
	records := df.Records()
	if len(records) < 2 {
		return nil
	}
	header := records[0]
	out := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = rec[i]
		}
		out = append(out, row)
	}
	return out
}

// ExtractJobs projects df onto the physical characteristics columns, drops
// duplicate rows and converts what is left into jobs.
func ExtractJobs(df dataframe.DataFrame, cols registry.Columns) ([]domain.FracJob, error) {
	distinct, err := registry.Distinct(df, cols.Characteristics(), startKeys(cols))
	if err != nil {
		return nil, fmt.Errorf("extract jobs: %w", err)
	}

	recs := rows(distinct)
	jobs := make([]domain.FracJob, 0, len(recs))
	for _, row := range recs {
		start, _ := ParseDate(row[cols.JobStart])
		end, _ := ParseDate(row[cols.JobEnd])
		jobs = append(jobs, domain.FracJob{
			APINumber:               row[cols.APINumber],
			JobStart:                start,
			JobEnd:                  end,
			TotalBaseWaterVolume:    ParseFloat(row[cols.TotalBaseWaterVolume]),
			TotalBaseNonWaterVolume: ParseFloat(row[cols.TotalBaseNonWaterVolume]),
			TVD:                     ParseFloat(row[cols.TVD]),
			Latitude:                ParseFloat(row[cols.Latitude]),
			Longitude:               ParseFloat(row[cols.Longitude]),
		})
	}
	return jobs, nil
}

// CountUndated returns how many jobs have no usable start date.
func CountUndated(jobs []domain.FracJob) int {
	n := 0
	for _, j := range jobs {
		if !j.HasStart() {
			n++
		}
	}
	return n
}

// Column returns one volume column of jobs by header name.
func Column(jobs []domain.FracJob, cols registry.Columns, name string) ([]float64, error) {
	var pick func(domain.FracJob) float64
	switch name {
	case cols.TotalBaseWaterVolume:
		pick = func(j domain.FracJob) float64 { return j.TotalBaseWaterVolume }
	case cols.TotalBaseNonWaterVolume:
		pick = func(j domain.FracJob) float64 { return j.TotalBaseNonWaterVolume }
	case cols.TVD:
		pick = func(j domain.FracJob) float64 { return j.TVD }
	default:
		return nil, fmt.Errorf("%s is not a numeric job column", name)
	}

	out := make([]float64, len(jobs))
	for i, j := range jobs {
		out[i] = pick(j)
	}
	return out, nil
}
