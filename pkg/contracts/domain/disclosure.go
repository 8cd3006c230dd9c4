package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FracJob is one deduplicated row of the physical-characteristics projection
// of a FracFocus disclosure. A job is identified by its API number together
// with its start and end dates; the same job appears once per chemical
// ingredient in the raw registry, which is why the projection is deduplicated.
//
// Volumes are in US gallons as reported. Missing or unparseable numeric
// values are stored as NaN so that charts and summaries can skip them.
type FracJob struct {
	// APINumber is the 14 digit well identifier, kept verbatim.
	APINumber string `json:"api_number" csv:"APINumber"`

	// JobStart is the parsed JobStartDate. Zero when the source value is
	// missing or in an unknown layout.
	JobStart time.Time `json:"job_start" csv:"JobStartDate"`

	// JobEnd is the parsed JobEndDate, zero when unknown.
	JobEnd time.Time `json:"job_end" csv:"JobEndDate"`

	TotalBaseWaterVolume    float64 `json:"total_base_water_volume" csv:"TotalBaseWaterVolume"`
	TotalBaseNonWaterVolume float64 `json:"total_base_non_water_volume" csv:"TotalBaseNonWaterVolume"`

	// TVD is the true vertical depth in feet.
	TVD float64 `json:"tvd" csv:"TVD"`

	Latitude  float64 `json:"latitude" csv:"Latitude"`
	Longitude float64 `json:"longitude" csv:"Longitude"`
}

// HasStart reports whether the job has a usable start date.
func (j FracJob) HasStart() bool {
	return !j.JobStart.IsZero()
}

// VendorUse is one deduplicated row of the vendor projection: a supplier
// recorded against a trade name on a job.
type VendorUse struct {
	APINumber string    `json:"api_number" csv:"APINumber"`
	JobStart  time.Time `json:"job_start" csv:"JobStartDate"`
	JobEnd    time.Time `json:"job_end" csv:"JobEndDate"`
	Latitude  float64   `json:"latitude" csv:"Latitude"`
	Longitude float64   `json:"longitude" csv:"Longitude"`

	// RawSupplier is the supplier text exactly as disclosed.
	RawSupplier string `json:"raw_supplier" csv:"RawSupplier"`

	// Supplier is the canonical vendor name after upper-casing and the
	// vendor lookup table have been applied.
	Supplier string `json:"supplier" csv:"Supplier"`

	TradeName string `json:"trade_name" csv:"TradeName"`

	// Quarter is the calendar quarter of JobStart, zero when JobStart is.
	Quarter Quarter `json:"quarter" csv:"JobStartDateQuarter"`
}

// Quarter is a calendar quarter. The zero value means "no quarter" and is
// produced for jobs without a start date.
type Quarter struct {
	Year int `json:"year"`
	Q    int `json:"q"`
}

// QuarterOf returns the calendar quarter containing t.
func QuarterOf(t time.Time) Quarter {
	if t.IsZero() {
		return Quarter{}
	}
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// ParseQuarter parses the "2018Q3" form produced by Quarter.String.
func ParseQuarter(s string) (Quarter, error) {
	year, q, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), "Q")
	if !ok {
		return Quarter{}, fmt.Errorf("invalid quarter %q", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Quarter{}, fmt.Errorf("invalid quarter year %q: %w", s, err)
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 || n > 4 {
		return Quarter{}, fmt.Errorf("invalid quarter number %q", s)
	}
	return Quarter{Year: y, Q: n}, nil
}

// IsZero reports whether q is the "no quarter" value.
func (q Quarter) IsZero() bool {
	return q.Year == 0 && q.Q == 0
}

// Before reports whether q is earlier than o.
func (q Quarter) Before(o Quarter) bool {
	if q.Year != o.Year {
		return q.Year < o.Year
	}
	return q.Q < o.Q
}

// Start returns the first instant of the quarter in UTC.
func (q Quarter) Start() time.Time {
	return time.Date(q.Year, time.Month((q.Q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

func (q Quarter) String() string {
	if q.IsZero() {
		return "NaT"
	}
	return fmt.Sprintf("%dQ%d", q.Year, q.Q)
}

// MarshalText renders the quarter as "2018Q1" so it can be used as a JSON
// map key and in CSV headers.
func (q Quarter) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText parses the form written by MarshalText.
func (q *Quarter) UnmarshalText(b []byte) error {
	if string(b) == "NaT" {
		*q = Quarter{}
		return nil
	}
	parsed, err := ParseQuarter(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// UsageKey identifies one cell of the quarterly vendor-usage table.
type UsageKey struct {
	Quarter  Quarter
	Supplier string
}

// UsagePivot is the wide form of the quarterly vendor-usage counts: one row
// per quarter, one column per supplier. Counts[i][j] is the number of uses of
// Suppliers[j] in Quarters[i]; absent combinations are 0.
//
// Quarters and Suppliers are kept sorted ascending so two pivots built from
// the same counts are identical.
type UsagePivot struct {
	Quarters  []Quarter `json:"quarters"`
	Suppliers []string  `json:"suppliers"`
	Counts    [][]int   `json:"counts"`
}

// NewUsagePivot builds the pivot from long-form counts.
func NewUsagePivot(counts map[UsageKey]int) *UsagePivot {
	quarterSet := make(map[Quarter]struct{})
	supplierSet := make(map[string]struct{})
	for k := range counts {
		quarterSet[k.Quarter] = struct{}{}
		supplierSet[k.Supplier] = struct{}{}
	}

	p := &UsagePivot{
		Quarters:  make([]Quarter, 0, len(quarterSet)),
		Suppliers: make([]string, 0, len(supplierSet)),
	}
	for q := range quarterSet {
		p.Quarters = append(p.Quarters, q)
	}
	for s := range supplierSet {
		p.Suppliers = append(p.Suppliers, s)
	}
	sort.Slice(p.Quarters, func(i, j int) bool { return p.Quarters[i].Before(p.Quarters[j]) })
	sort.Strings(p.Suppliers)

	p.Counts = make([][]int, len(p.Quarters))
	for i, q := range p.Quarters {
		row := make([]int, len(p.Suppliers))
		for j, s := range p.Suppliers {
			row[j] = counts[UsageKey{Quarter: q, Supplier: s}]
		}
		p.Counts[i] = row
	}
	return p
}

// Empty reports whether the pivot has no cells.
func (p *UsagePivot) Empty() bool {
	return p == nil || len(p.Quarters) == 0 || len(p.Suppliers) == 0
}

// Totals returns the total count per supplier, aligned with Suppliers.
func (p *UsagePivot) Totals() []int {
	totals := make([]int, len(p.Suppliers))
	for _, row := range p.Counts {
		for j, c := range row {
			totals[j] += c
		}
	}
	return totals
}

// Column returns the per-quarter counts of one supplier, aligned with
// Quarters. It returns nil when the supplier is not in the pivot.
func (p *UsagePivot) Column(supplier string) []int {
	j := p.supplierIndex(supplier)
	if j < 0 {
		return nil
	}
	col := make([]int, len(p.Quarters))
	for i, row := range p.Counts {
		col[i] = row[j]
	}
	return col
}

// Count returns the cell for (q, supplier), 0 when either is absent.
func (p *UsagePivot) Count(q Quarter, supplier string) int {
	j := p.supplierIndex(supplier)
	if j < 0 {
		return 0
	}
	for i, pq := range p.Quarters {
		if pq == q {
			return p.Counts[i][j]
		}
	}
	return 0
}

// DropBelow returns a copy of the pivot without the suppliers whose total
// over all quarters is below threshold. A supplier whose total equals the
// threshold is kept. Quarters are never dropped, even when every remaining
// cell in the row is zero.
func (p *UsagePivot) DropBelow(threshold int) *UsagePivot {
	totals := p.Totals()
	keep := make([]int, 0, len(p.Suppliers))
	for j, total := range totals {
		if total >= threshold {
			keep = append(keep, j)
		}
	}

	out := &UsagePivot{
		Quarters:  append([]Quarter(nil), p.Quarters...),
		Suppliers: make([]string, 0, len(keep)),
		Counts:    make([][]int, len(p.Quarters)),
	}
	for _, j := range keep {
		out.Suppliers = append(out.Suppliers, p.Suppliers[j])
	}
	for i, row := range p.Counts {
		newRow := make([]int, 0, len(keep))
		for _, j := range keep {
			newRow = append(newRow, row[j])
		}
		out.Counts[i] = newRow
	}
	return out
}

func (p *UsagePivot) supplierIndex(supplier string) int {
	i := sort.SearchStrings(p.Suppliers, supplier)
	if i < len(p.Suppliers) && p.Suppliers[i] == supplier {
		return i
	}
	return -1
}

// VolumeSummary holds the five-number summary plus mean of a volume column,
// computed over non-missing values only.
type VolumeSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// IQR returns the interquartile range.
func (s VolumeSummary) IQR() float64 {
	return s.Q3 - s.Q1
}

// IsMissing reports whether v is the NaN placeholder used for missing values.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
