// Package calibrate builds a qPCR standard curve from known-concentration
// replicates, fits a log-linear calibration model to it, and applies the
// model to unknown samples. Quantities are worked in log2 space so that one
// PCR cycle corresponds to one unit on the quantity axis.
package calibrate

import (
	"math"

	"github.com/carbocation/qpcrcalib/plate"
	"gonum.org/v1/gonum/stat"
)

// StandardPoint is one point on the standard curve: the replicate-averaged
// Cq and log2(quantity) for a single standard identifier.
type StandardPoint struct {
	Sample      string
	MeanCq      float64
	MeanLog2Qty float64
}

// BuildStandardCurve groups standard wells by sample identifier and averages
// each group into one StandardPoint. Missing Cq values are excluded from the
// Cq mean; missing or non-positive quantities are excluded from the
// log2-quantity mean. A group with no eligible values yields NaN means and is
// skipped later by the model fit. Output order is not guaranteed.
func BuildStandardCurve(rows []plate.Row) []StandardPoint {
	cqs := make(map[string][]float64)
	log2Qtys := make(map[string][]float64)

	for _, row := range rows {
		if plate.Classify(row.Sample) != plate.Standard {
			continue
		}

		cqs[row.Sample] = append(cqs[row.Sample], row.Cq)
		log2Qtys[row.Sample] = append(log2Qtys[row.Sample], log2Positive(row.Quantity))
	}

	points := make([]StandardPoint, 0, len(cqs))
	for sample := range cqs {
		points = append(points, StandardPoint{
			Sample:      sample,
			MeanCq:      meanDefined(cqs[sample]),
			MeanLog2Qty: meanDefined(log2Qtys[sample]),
		})
	}

	return points
}

// log2Positive is log2 over the domain where it is meaningful for
// quantities: finite, strictly positive values. Everything else is NaN.
func log2Positive(quantity float64) float64 {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		return math.NaN()
	}

	return math.Log2(quantity)
}

// meanDefined averages the defined (non-NaN) values, returning NaN when no
// value is defined.
func meanDefined(values []float64) float64 {
	defined := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}

	if len(defined) == 0 {
		return math.NaN()
	}

	return stat.Mean(defined, nil)
}

// meanStrict averages all values with no missing-value guard: any NaN input
// makes the mean NaN. This is the propagation policy for unknown samples.
func meanStrict(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	return stat.Mean(values, nil)
}
