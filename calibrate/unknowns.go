package calibrate

import (
	"fmt"
	"math"

	"github.com/carbocation/pfx"
	"github.com/carbocation/qpcrcalib/plate"
	"github.com/montanaflynn/stats"
)

// Outlier annotates an unknown whose mean Cq falls outside the Cq range
// spanned by the standards. Advisory only; flagged samples still receive a
// fitted value.
type Outlier int

const (
	None Outlier = iota
	Under
	Over
)

func (o Outlier) String() string {
	switch o {
	case Under:
		return "Under"
	case Over:
		return "Over"
	}

	return "None"
}

// MarshalCSV renders the flag for the output table.
func (o Outlier) MarshalCSV() (string, error) {
	return o.String(), nil
}

// Unknown is one aggregated non-standard, non-blank sample.
type Unknown struct {
	Sample      string
	MeanCq      float64
	MeanLog2Qty float64
	Flag        Outlier
}

// AggregateUnknowns groups unknown wells by sample identifier and averages
// each group's Cq and log2(quantity). Unlike the standards path, missing
// replicate values are not excluded: any missing value makes the group mean
// NaN, and such samples drop out of prediction downstream.
func AggregateUnknowns(rows []plate.Row) []Unknown {
	cqs := make(map[string][]float64)
	log2Qtys := make(map[string][]float64)

	for _, row := range rows {
		if plate.Classify(row.Sample) != plate.Unknown {
			continue
		}

		cqs[row.Sample] = append(cqs[row.Sample], row.Cq)
		log2Qtys[row.Sample] = append(log2Qtys[row.Sample], log2Positive(row.Quantity))
	}

	unknowns := make([]Unknown, 0, len(cqs))
	for sample := range cqs {
		unknowns = append(unknowns, Unknown{
			Sample:      sample,
			MeanCq:      meanStrict(cqs[sample]),
			MeanLog2Qty: meanStrict(log2Qtys[sample]),
		})
	}

	return unknowns
}

// CqRange is the Cq interval spanned by the usable standard points.
type CqRange struct {
	Min float64
	Max float64
}

// StandardCqRange computes the Cq range observed on the standard curve,
// considering only points with a defined mean Cq.
func StandardCqRange(points []StandardPoint) (CqRange, error) {
	cqs := make(stats.Float64Data, 0, len(points))
	for _, p := range points {
		if !math.IsNaN(p.MeanCq) {
			cqs = append(cqs, p.MeanCq)
		}
	}

	if len(cqs) == 0 {
		return CqRange{}, fmt.Errorf("no standard points with a defined mean Cq")
	}

	min, err := stats.Min(cqs)
	if err != nil {
		return CqRange{}, pfx.Err(err)
	}

	max, err := stats.Max(cqs)
	if err != nil {
		return CqRange{}, pfx.Err(err)
	}

	return CqRange{Min: min, Max: max}, nil
}

// Flag classifies a Cq against the range. The boundaries are inclusive: a Cq
// exactly at Min or Max is None. NaN is None, since such samples never reach
// the output.
func (r CqRange) Flag(cq float64) Outlier {
	switch {
	case cq < r.Min:
		return Under
	case cq > r.Max:
		return Over
	}

	return None
}

// FlagOutliers annotates each unknown with its range flag.
func FlagOutliers(unknowns []Unknown, r CqRange) []Unknown {
	out := make([]Unknown, len(unknowns))
	for i, u := range unknowns {
		u.Flag = r.Flag(u.MeanCq)
		out[i] = u
	}

	return out
}
