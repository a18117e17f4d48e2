package calibrate

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/qpcrcalib/plate"
)

func writeTempFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()

	concPath := writeTempFile(t, dir, "concentrations.csv",
		"Sample,Final Concentration (ng/uL)\n"+
			"A1,5.0\n")

	// Two standards spanning Cq 20-25, one mid-range unknown, one far
	// out-of-range unknown, two blanks, and one unknown with a missing
	// replicate.
	qpcrPath := writeTempFile(t, dir, "results.csv",
		"Well,Sample,Cq,Quantity\n"+
			"A01,st1,19.9,1000\n"+
			"A02,st1,20.1,1000\n"+
			"B01,st2,25,31.25\n"+
			"C01,a1,22.4,150\n"+
			"C02,a1,22.6,200\n"+
			"D01,h2o-1,38,0.01\n"+
			"D02,negative-ctrl,39,0.01\n"+
			"E01,high,999,0.001\n"+
			"F01,b1,22,100\n"+
			"F02,b1,-,110\n")

	result, err := Run(Config{
		ConcentrationPath: concPath,
		QPCRPath:          qpcrPath,
		OutputPath:        filepath.Join(dir, "out.csv"),
	})
	if err != nil {
		t.Fatal(err)
	}

	// log2(1000) - log2(31.25) = 5 over 5 cycles: the fit is exactly one
	// doubling per cycle.
	if math.Abs(result.Model.Slope-(-1)) > 1e-6 {
		t.Errorf("slope: got %v, expected -1", result.Model.Slope)
	}

	// Blanks and the missing-replicate sample never reach the output.
	if len(result.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d: %+v", len(result.Predictions), result.Predictions)
	}
	for _, p := range result.Predictions {
		switch p.Sample {
		case "H2O-1", "NEGATIVE-CTRL", "B1":
			t.Errorf("sample %q must not appear in the output", p.Sample)
		}
	}

	a1 := result.Predictions[0]
	if a1.Sample != "A1" {
		t.Fatalf("expected A1 first, got %+v", a1)
	}
	if a1.Flag != None {
		t.Errorf("A1 is in range, got flag %v", a1.Flag)
	}
	if expected := math.Log2(1000) - 2.5; math.Abs(a1.FittedLog2Qty-expected) > 1e-6 {
		t.Errorf("A1 fitted log2: got %v, expected %v", a1.FittedLog2Qty, expected)
	}
	if expected := math.Sqrt(31250); math.Abs(a1.FittedConc-expected)/expected > 1e-6 {
		t.Errorf("A1 fitted conc: got %v, expected %v", a1.FittedConc, expected)
	}
	if expected := math.Sqrt(30000); math.Abs(a1.ObservedConc-expected)/expected > 1e-6 {
		t.Errorf("A1 observed conc: got %v, expected %v", a1.ObservedConc, expected)
	}

	// Far out of range: flagged Over but still fitted.
	high := result.Predictions[1]
	if high.Sample != "HIGH" || high.Flag != Over {
		t.Fatalf("expected HIGH flagged Over, got %+v", high)
	}
	if math.IsNaN(high.FittedLog2Qty) {
		t.Errorf("flagging is advisory; HIGH should still be fitted")
	}

	// HIGH has no row in the concentration table.
	unmatched := result.Unmatched()
	if len(unmatched) != 1 || unmatched[0] != "HIGH" {
		t.Errorf("unmatched: got %v, expected [HIGH]", unmatched)
	}
}

func TestRunMissingColumnIsFatal(t *testing.T) {
	dir := t.TempDir()

	concPath := writeTempFile(t, dir, "concentrations.csv",
		"Sample,Final Concentration (ng/uL)\nA1,5.0\n")
	qpcrPath := writeTempFile(t, dir, "results.csv",
		"Well,Sample,Cq\nA01,ST1,20\n")

	_, err := Run(Config{ConcentrationPath: concPath, QPCRPath: qpcrPath})
	if !errors.Is(err, plate.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestRunInsufficientStandards(t *testing.T) {
	dir := t.TempDir()

	concPath := writeTempFile(t, dir, "concentrations.csv",
		"Sample,Final Concentration (ng/uL)\nA1,5.0\n")
	qpcrPath := writeTempFile(t, dir, "results.csv",
		"Well,Sample,Cq,Quantity\n"+
			"A01,ST1,20,1000\n"+
			"C01,A1,22.5,150\n")

	_, err := Run(Config{ConcentrationPath: concPath, QPCRPath: qpcrPath})
	if !errors.Is(err, ErrInsufficientStandards) {
		t.Fatalf("expected ErrInsufficientStandards, got %v", err)
	}
}

func TestOutlierMarshalCSV(t *testing.T) {
	for _, v := range []struct {
		flag     Outlier
		expected string
	}{
		{None, "None"},
		{Under, "Under"},
		{Over, "Over"},
	} {
		got, err := v.flag.MarshalCSV()
		if err != nil {
			t.Fatal(err)
		}
		if got != v.expected {
			t.Errorf("MarshalCSV() = %q, expected %q", got, v.expected)
		}
	}
}
