package calibrate

import (
	"math"
	"sort"
)

// Prediction is one fully-observed unknown with the calibration applied. The
// struct tags define the output table's columns and their order.
type Prediction struct {
	Sample        string  `csv:"Sample"`
	Flag          Outlier `csv:"Outlier"`
	MeanCq        float64 `csv:"mean_cq"`
	MeanLog2Qty   float64 `csv:"mean_qty_log2"`
	FittedLog2Qty float64 `csv:"fitted"`
	ObservedConc  float64 `csv:"conc"`
	FittedConc    float64 `csv:"fitted_conc"`
}

// Predict applies the calibration model to each unknown with defined
// aggregates, converting both the observed and the fitted log2 quantities
// back to linear concentrations. Unknowns without a finite mean Cq and a
// finite mean log2 quantity are filtered out entirely rather than emitted
// with placeholders. Output is sorted by sample for reproducibility.
func Predict(m Model, unknowns []Unknown) []Prediction {
	predictions := make([]Prediction, 0, len(unknowns))

	for _, u := range unknowns {
		if math.IsNaN(u.MeanCq) || math.IsInf(u.MeanCq, 0) ||
			math.IsNaN(u.MeanLog2Qty) || math.IsInf(u.MeanLog2Qty, 0) {
			continue
		}

		fitted := m.Predict(u.MeanCq)

		predictions = append(predictions, Prediction{
			Sample:        u.Sample,
			Flag:          u.Flag,
			MeanCq:        u.MeanCq,
			MeanLog2Qty:   u.MeanLog2Qty,
			FittedLog2Qty: fitted,
			ObservedConc:  math.Exp2(u.MeanLog2Qty),
			FittedConc:    math.Exp2(fitted),
		})
	}

	sort.Slice(predictions, func(i, j int) bool {
		return predictions[i].Sample < predictions[j].Sample
	})

	return predictions
}
