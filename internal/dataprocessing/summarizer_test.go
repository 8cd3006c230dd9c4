package dataprocessing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fracfocus/internal/shared/testutil"
	"fracfocus/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func use(supplier string, start time.Time) domain.VendorUse {
	return domain.VendorUse{Supplier: supplier, JobStart: start, Quarter: domain.QuarterOf(start)}
}

func TestWithinWindow_Inclusive(t *testing.T) {
	from, to := day(2018, 1, 1), day(2019, 1, 1)
	uses := []domain.VendorUse{
		use("A", day(2017, 12, 31)),
		use("A", day(2018, 1, 1)),
		use("A", day(2018, 6, 30)),
		use("A", day(2019, 1, 1)),
		use("A", day(2019, 1, 1).Add(time.Hour)),
		use("A", time.Time{}),
	}

	got := WithinWindow(uses, from, to)
	require.Len(t, got, 3)
	assert.Equal(t, day(2018, 1, 1), got[0].JobStart)
	assert.Equal(t, day(2018, 6, 30), got[1].JobStart)
	assert.Equal(t, day(2019, 1, 1), got[2].JobStart)
}

func TestCountUsage_ExactRowCounts(t *testing.T) {
	uses := []domain.VendorUse{
		use("NALCO", day(2018, 1, 5)),
		use("NALCO", day(2018, 2, 5)),
		use("NALCO", day(2018, 4, 5)),
		use("ACE", day(2018, 3, 31)),
		use("ACE", day(2018, 12, 31)),
		use("ACE", time.Time{}),
	}

	counts := CountUsage(uses)
	assert.Equal(t, map[domain.UsageKey]int{
		{Quarter: domain.Quarter{Year: 2018, Q: 1}, Supplier: "NALCO"}: 2,
		{Quarter: domain.Quarter{Year: 2018, Q: 2}, Supplier: "NALCO"}: 1,
		{Quarter: domain.Quarter{Year: 2018, Q: 1}, Supplier: "ACE"}:   1,
		{Quarter: domain.Quarter{Year: 2018, Q: 4}, Supplier: "ACE"}:   1,
	}, counts)

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 5, total)
}

func TestPivot_ZeroFillsAndSorts(t *testing.T) {
	q1 := domain.Quarter{Year: 2018, Q: 1}
	q3 := domain.Quarter{Year: 2018, Q: 3}
	p := Pivot(map[domain.UsageKey]int{
		{Quarter: q3, Supplier: "NALCO"}: 4,
		{Quarter: q1, Supplier: "ACE"}:   2,
	})

	assert.Equal(t, []domain.Quarter{q1, q3}, p.Quarters)
	assert.Equal(t, []string{"ACE", "NALCO"}, p.Suppliers)
	assert.Equal(t, [][]int{{2, 0}, {0, 4}}, p.Counts)
	assert.Equal(t, []int{2, 4}, p.Totals())
}

func TestSummarizer_DropsRareSuppliers(t *testing.T) {
	var uses []domain.VendorUse
	add := func(supplier string, n int, start time.Time) {
		for i := 0; i < n; i++ {
			uses = append(uses, use(supplier, start))
		}
	}
	add("BIG", 15, day(2018, 2, 1))
	add("BIG", 10, day(2018, 8, 1))
	add("EXACT", 20, day(2018, 5, 1))
	add("SMALL", 19, day(2018, 11, 1))
	add("OUTSIDE", 50, day(2017, 6, 1))

	logger, handler := testutil.NewTestLogger(t)
	s := NewSummarizer(logger, SummarizerConfig{
		WindowStart: day(2018, 1, 1),
		WindowEnd:   day(2019, 1, 1),
		MinUses:     20,
	})

	summary := s.Summarize(context.Background(), uses)

	assert.Equal(t, 64, summary.InWindow)
	assert.Equal(t, []string{"BIG", "EXACT", "SMALL"}, summary.Full.Suppliers)
	assert.Equal(t, []string{"BIG", "EXACT"}, summary.Pivot.Suppliers)
	assert.Len(t, summary.Pivot.Quarters, 4, "quarters are kept even when their remaining cells are zero")
	assert.Equal(t, 0, summary.Pivot.Count(domain.Quarter{Year: 2018, Q: 4}, "BIG"))
	assert.Equal(t, []int{25, 20}, summary.Pivot.Totals())

	for _, total := range summary.Pivot.Totals() {
		assert.GreaterOrEqual(t, total, 20, fmt.Sprint(summary.Pivot.Suppliers))
	}

	assert.True(t, handler.ContainsMessage("vendor usage summarized"))
	assert.True(t, handler.ContainsAttr("suppliers_kept", int64(2)))
}
