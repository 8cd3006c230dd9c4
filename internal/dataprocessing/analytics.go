package dataprocessing

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	apperrors "fracfocus/internal/errors"
	"fracfocus/pkg/contracts/domain"
)

// NonMissing returns the values of xs that are not NaN, in order.
func NonMissing(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !domain.IsMissing(x) {
			out = append(out, x)
		}
	}
	return out
}

// Describe summarises the non-missing values of a column. Q1 and Q3
// interpolate linearly between order statistics; the median is the middle
// value, or the mean of the two middle values. It returns ErrNoData when
// every value is missing.
func Describe(column string, values []float64) (domain.VolumeSummary, error) {
	sorted := NonMissing(values)
	if len(sorted) == 0 {
		return domain.VolumeSummary{Column: column}, apperrors.ErrNoData
	}
	sort.Float64s(sorted)

	return domain.VolumeSummary{
		Column: column,
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		Median: median(sorted),
		Q3:     stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
	}, nil
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
