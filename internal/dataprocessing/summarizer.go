package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"fracfocus/pkg/contracts/domain"
)

// WithinWindow keeps the uses whose job started between from and to, both
// ends inclusive. Uses without a start date are dropped.
func WithinWindow(uses []domain.VendorUse, from, to time.Time) []domain.VendorUse {
	out := make([]domain.VendorUse, 0, len(uses))
	for _, u := range uses {
		if u.JobStart.IsZero() || u.JobStart.Before(from) || u.JobStart.After(to) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// CountUsage counts the rows per (quarter, supplier). Uses without a
// quarter are not counted.
func CountUsage(uses []domain.VendorUse) map[domain.UsageKey]int {
	counts := make(map[domain.UsageKey]int)
	for _, u := range uses {
		if u.Quarter.IsZero() {
			continue
		}
		counts[domain.UsageKey{Quarter: u.Quarter, Supplier: u.Supplier}]++
	}
	return counts
}

// Pivot turns long-form counts into the quarter × supplier table.
func Pivot(counts map[domain.UsageKey]int) *domain.UsagePivot {
	return domain.NewUsagePivot(counts)
}

// Summarizer builds the quarterly vendor-usage table.
type Summarizer struct {
	logger  *slog.Logger
	from    time.Time
	to      time.Time
	minUses int
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	WindowStart time.Time
	WindowEnd   time.Time
	MinUses     int // suppliers with fewer uses over all quarters are dropped
}

// UsageSummary is the outcome of one summarization.
type UsageSummary struct {
	InWindow int                     `json:"in_window"`
	Counts   map[domain.UsageKey]int `json:"-"`
	Full     *domain.UsagePivot      `json:"full"`
	Pivot    *domain.UsagePivot      `json:"pivot"`
}

// NewSummarizer creates a vendor-usage summarizer.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		logger:  logger,
		from:    config.WindowStart,
		to:      config.WindowEnd,
		minUses: config.MinUses,
	}
}

// Summarize restricts uses to the window, counts them per quarter and
// supplier, pivots and drops rarely used suppliers.
func (s *Summarizer) Summarize(ctx context.Context, uses []domain.VendorUse) *UsageSummary {
	inWindow := WithinWindow(uses, s.from, s.to)
	counts := CountUsage(inWindow)
	full := Pivot(counts)
	pivot := full.DropBelow(s.minUses)

	s.logger.InfoContext(ctx, "vendor usage summarized",
		slog.Int("uses", len(uses)),
		slog.Int("in_window", len(inWindow)),
		slog.Int("quarters", len(full.Quarters)),
		slog.Int("suppliers", len(full.Suppliers)),
		slog.Int("suppliers_kept", len(pivot.Suppliers)),
		slog.Int("min_uses", s.minUses))

	return &UsageSummary{
		InWindow: len(inWindow),
		Counts:   counts,
		Full:     full,
		Pivot:    pivot,
	}
}
