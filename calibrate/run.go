package calibrate

import (
	"log"

	"github.com/carbocation/qpcrcalib/plate"
)

// Config names the three files a run operates on. There is no other runtime
// state; a run is a pure function of its two input tables.
type Config struct {
	// ConcentrationPath is the companion concentration table (input A).
	ConcentrationPath string

	// QPCRPath is the instrument's qPCR results table (input B).
	QPCRPath string

	// OutputPath is where the caller writes the prediction table. Run
	// itself performs no output; writing is the caller's concern so that
	// nothing is written when a run fails.
	OutputPath string
}

// Result is everything one run produces: the standard curve, the fitted
// model, and the predictions, plus the concentration table for
// cross-referencing. Reporting layers (tables, charts) consume these values.
type Result struct {
	Concentrations []plate.Concentration
	Points         []StandardPoint
	Model          Model
	Range          CqRange
	Predictions    []Prediction
}

// Run executes the calibration pipeline: load and clean both tables, build
// the standard curve, fit the model, aggregate and flag the unknowns, and
// predict. Schema errors and an unusable standard curve abort the run; per-
// well data-quality problems degrade to exclusion.
func Run(cfg Config) (*Result, error) {
	concentrations, err := plate.LoadConcentrations(cfg.ConcentrationPath)
	if err != nil {
		return nil, err
	}

	table, err := plate.OpenTable("qPCR results", cfg.QPCRPath)
	if err != nil {
		return nil, err
	}

	rows, err := plate.Clean(table)
	if err != nil {
		return nil, err
	}
	log.Println("Cleaned", len(rows), "wells from", cfg.QPCRPath)

	points := BuildStandardCurve(rows)

	model, err := Fit(points)
	if err != nil {
		return nil, err
	}
	log.Printf("Fitted standard curve: slope %.4f, intercept %.4f, R2 %.4f, efficiency %.1f%%\n",
		model.Slope, model.Intercept, model.RSquared, 100*model.Efficiency())

	cqRange, err := StandardCqRange(points)
	if err != nil {
		return nil, err
	}

	unknowns := FlagOutliers(AggregateUnknowns(rows), cqRange)
	predictions := Predict(model, unknowns)
	log.Println("Predicted", len(predictions), "of", len(unknowns), "unknown samples")

	return &Result{
		Concentrations: concentrations,
		Points:         points,
		Model:          model,
		Range:          cqRange,
		Predictions:    predictions,
	}, nil
}

// Unmatched lists predicted samples that have no row in the concentration
// table, a common plate-annotation slip worth surfacing.
func (r *Result) Unmatched() []string {
	known := make(map[string]struct{}, len(r.Concentrations))
	for _, c := range r.Concentrations {
		known[c.Sample] = struct{}{}
	}

	var unmatched []string
	for _, p := range r.Predictions {
		if _, ok := known[p.Sample]; !ok {
			unmatched = append(unmatched, p.Sample)
		}
	}

	return unmatched
}
