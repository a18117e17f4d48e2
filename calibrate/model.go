package calibrate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientStandards indicates that fewer than two usable standard
// points were available, so no calibration line can be fit. Fatal.
var ErrInsufficientStandards = errors.New("insufficient standard points to fit calibration model")

// Model is the fitted calibration line: MeanLog2Qty ≈ Slope*MeanCq +
// Intercept, fit by ordinary least squares over the standard curve.
type Model struct {
	Slope     float64
	Intercept float64

	// RSquared is the coefficient of determination of the fit over the
	// standard points, a routine quality check on the curve.
	RSquared float64
}

// Fit computes the ordinary least-squares regression of log2 quantity on Cq
// over the standard points with both values defined. At least two such
// points, at distinct Cq values, are required; no weighting, no
// regularization.
func Fit(points []StandardPoint) (Model, error) {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	distinct := make(map[float64]struct{})

	for _, p := range points {
		if math.IsNaN(p.MeanCq) || math.IsInf(p.MeanCq, 0) ||
			math.IsNaN(p.MeanLog2Qty) || math.IsInf(p.MeanLog2Qty, 0) {
			continue
		}

		xs = append(xs, p.MeanCq)
		ys = append(ys, p.MeanLog2Qty)
		distinct[p.MeanCq] = struct{}{}
	}

	if len(distinct) < 2 {
		return Model{}, fmt.Errorf("%w: %d distinct usable points, need at least 2", ErrInsufficientStandards, len(distinct))
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, intercept, slope)

	return Model{Slope: slope, Intercept: intercept, RSquared: r2}, nil
}

// Predict returns the fitted log2 quantity at the given Cq.
func (m Model) Predict(cq float64) float64 {
	return m.Slope*cq + m.Intercept
}

// Efficiency derives the per-cycle amplification efficiency implied by the
// slope: 1.0 means perfect doubling each cycle (slope of -1 on the log2
// axis).
func (m Model) Efficiency() float64 {
	if m.Slope == 0 {
		return math.NaN()
	}

	return math.Pow(2, -1/m.Slope) - 1
}
