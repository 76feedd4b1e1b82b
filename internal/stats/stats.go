// Package stats implements the numeric analysis behind the /api/data
// endpoints: descriptive statistics, synthetic sample generation, and a
// least-squares trend fit.
//
// Everything here is a pure function over a []float64 — no I/O, no logging,
// no state. That keeps the package trivially testable and lets handlers call
// it synchronously without a context.
//
// WHY gonum?
// gonum is the Go ecosystem's numerics library (the rough counterpart of
// numpy). We use it for the mean, sums, extrema, the normal distribution,
// and ordinary least squares rather than hand-rolling those. Two things ARE
// hand-rolled, deliberately:
//
//   - percentile: gonum's stat.Quantile implements different estimators than
//     the linear interpolation between order statistics our API documents,
//     so we compute it directly (index = p/100 * (n-1), interpolate).
//   - variance: gonum's stat.Variance is the sample estimator (÷ n-1). Our
//     contract is the POPULATION estimator (÷ n), so we compute it directly.
//     This choice is part of the API: std and variance divide by n.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrNoData is returned when a computation needs at least one value.
	ErrNoData = errors.New("stats: no data points")

	// ErrInsufficientData is returned when a trend fit has fewer than two points.
	ErrInsufficientData = errors.New("stats: need at least 2 data points")
)

// Quartiles holds the 25th, 50th and 75th percentiles of a sample.
type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// Summary is the full set of descriptive statistics for a sample.
// Std and Variance are population estimators (divide by n, not n-1).
type Summary struct {
	Mean      float64   `json:"mean"`
	Median    float64   `json:"median"`
	Std       float64   `json:"std"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Count     int       `json:"count"`
	Sum       float64   `json:"sum"`
	Variance  float64   `json:"variance"`
	Quartiles Quartiles `json:"quartiles"`
}

// Trend is the result of an ordinary least squares fit against the implicit
// x-coordinates 0..n-1.
type Trend struct {
	Slope       float64   `json:"slope"`
	Intercept   float64   `json:"intercept"`
	Predictions []float64 `json:"predictions"`
	Direction   string    `json:"trend"`
}

// Trend direction labels. The threshold is exact zero: any positive slope is
// increasing, any negative slope is decreasing, a slope of exactly 0 is flat.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendFlat       = "flat"
)

// Describe computes descriptive statistics over values.
// Returns ErrNoData for an empty input. NaN and Inf inputs are not rejected;
// they propagate into the results the way floating point dictates.
func Describe(values []float64) (*Summary, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}

	mean := stat.Mean(values, nil)

	// Population variance: mean of squared deviations (÷ n).
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	variance := sq / float64(len(values))

	// Percentiles need the sample in order. Sort a copy — Describe must not
	// mutate its input.
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return &Summary{
		Mean:     mean,
		Median:   percentile(sorted, 50),
		Std:      math.Sqrt(variance),
		Min:      floats.Min(sorted),
		Max:      floats.Max(sorted),
		Count:    len(values),
		Sum:      floats.Sum(values),
		Variance: variance,
		Quartiles: Quartiles{
			Q1: percentile(sorted, 25),
			Q2: percentile(sorted, 50),
			Q3: percentile(sorted, 75),
		},
	}, nil
}

// percentile returns the p-th percentile (0..100) of an already-sorted
// sample, using linear interpolation between order statistics: the target
// index is p/100 * (n-1), and values between two order statistics are
// interpolated by the fractional part. For an even-length sample this makes
// the median the average of the two middle values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := p / 100 * float64(len(sorted)-1)
	lo := math.Floor(idx)
	hi := math.Ceil(idx)
	if lo == hi {
		return sorted[int(idx)]
	}

	frac := idx - lo
	return sorted[int(lo)]*(1-frac) + sorted[int(hi)]*frac
}

// Normal draws count independent samples from a normal distribution with the
// given mean and standard deviation. Used by the demo endpoints only — the
// samples are never persisted.
func Normal(count int, mean, stddev float64) []float64 {
	dist := distuv.Normal{Mu: mean, Sigma: stddev}

	samples := make([]float64, count)
	for i := range samples {
		samples[i] = dist.Rand()
	}
	return samples
}

// FitTrend fits y = intercept + slope*x by ordinary least squares, where x is
// the index 0..n-1, and extrapolates the next horizon values.
// Returns ErrInsufficientData when fewer than 2 points are supplied — a line
// through one point is undetermined.
func FitTrend(values []float64, horizon int) (*Trend, error) {
	if len(values) < 2 {
		return nil, ErrInsufficientData
	}

	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(xs, values, nil, false)

	predictions := make([]float64, horizon)
	for i := range predictions {
		x := float64(len(values) + i)
		predictions[i] = intercept + slope*x
	}

	direction := TrendFlat
	switch {
	case slope > 0:
		direction = TrendIncreasing
	case slope < 0:
		direction = TrendDecreasing
	}

	return &Trend{
		Slope:       slope,
		Intercept:   intercept,
		Predictions: predictions,
		Direction:   direction,
	}, nil
}
