package analysis

import (
	"time"

	"fracfocus/internal/charts"
	"fracfocus/internal/dataprocessing"
	"fracfocus/pkg/contracts/domain"
)

// Result is everything one analysis pass produced.
type Result struct {
	RunID    string        `json:"run_id"`
	Source   string        `json:"source"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`

	TotalRows    int `json:"total_rows"`
	FilteredRows int `json:"filtered_rows"`
	UndatedJobs  int `json:"undated_jobs"`
	VendorUses   int `json:"vendor_uses"`

	Jobs      []domain.FracJob             `json:"-"`
	Summaries []domain.VolumeSummary       `json:"summaries"`
	Usage     *dataprocessing.UsageSummary `json:"-"`
	Pivot     *domain.UsagePivot           `json:"pivot"`

	Charts      []*charts.Chart `json:"charts"`
	Skipped     []string        `json:"skipped_charts,omitempty"`
	ChartFiles  []string        `json:"chart_files,omitempty"`
	ExportFiles []string        `json:"export_files,omitempty"`
}

// Chart returns the rendered chart with the given name.
func (r *Result) Chart(name string) (*charts.Chart, bool) {
	for _, c := range r.Charts {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Summary returns the volume summary of a column.
func (r *Result) Summary(column string) (domain.VolumeSummary, bool) {
	for _, s := range r.Summaries {
		if s.Column == column {
			return s, true
		}
	}
	return domain.VolumeSummary{}, false
}
