package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fracfocus/internal/errors"
)

func TestDescribe(t *testing.T) {
	nan := math.NaN()
	s, err := Describe("TotalBaseNonWaterVolume", []float64{5, nan, 1, 4, 2, nan, 3})
	require.NoError(t, err)

	assert.Equal(t, "TotalBaseNonWaterVolume", s.Column)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 3.0, s.Mean)
	assert.InDelta(t, 1.25, s.Q1, 1e-9)
	assert.InDelta(t, 3.75, s.Q3, 1e-9)
	assert.InDelta(t, 2.5, s.IQR(), 1e-9)
}

func TestDescribe_Quartiles(t *testing.T) {
	tests := []struct {
		name       string
		values     []float64
		q1, median float64
		q3         float64
	}{
		{name: "single value", values: []float64{7}, q1: 7, median: 7, q3: 7},
		{name: "even count", values: []float64{4, 1, 3, 2}, q1: 1, median: 2.5, q3: 3},
		{name: "interpolated", values: []float64{10, 20, 30, 40, 50, 60}, q1: 15, median: 35, q3: 45},
		{name: "outlier", values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 1000}, q1: 2.5, median: 5.5, q3: 7.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Describe("TVD", tt.values)
			require.NoError(t, err)
			assert.InDelta(t, tt.q1, s.Q1, 1e-9)
			assert.InDelta(t, tt.median, s.Median, 1e-9)
			assert.InDelta(t, tt.q3, s.Q3, 1e-9)
		})
	}
}

func TestDescribe_AllMissing(t *testing.T) {
	_, err := Describe("TVD", []float64{math.NaN()})
	assert.ErrorIs(t, err, apperrors.ErrNoData)

	_, err = Describe("TVD", nil)
	assert.ErrorIs(t, err, apperrors.ErrNoData)
}

func TestNonMissing(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, NonMissing([]float64{math.NaN(), 1, math.NaN(), 2}))
	assert.Empty(t, NonMissing(nil))
}
