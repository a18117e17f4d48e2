package plate

import (
	"errors"
	"testing"
)

func TestParseConcentrations(t *testing.T) {
	contents := []byte("Sample,Final Concentration (ng/uL),Operator\n" +
		"a1,5.25,JP\n" +
		"B7,0.5,JP\n")

	concentrations, err := ParseConcentrations("concentrations", contents)
	if err != nil {
		t.Fatal(err)
	}

	if len(concentrations) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(concentrations))
	}

	if concentrations[0].Sample != "A1" || concentrations[0].FinalNgPerUL != 5.25 {
		t.Errorf("bad first row: %+v", concentrations[0])
	}
	if concentrations[1].Sample != "B7" || concentrations[1].FinalNgPerUL != 0.5 {
		t.Errorf("bad second row: %+v", concentrations[1])
	}
}

func TestParseConcentrationsMissingColumn(t *testing.T) {
	contents := []byte("Sample,Concentration\nA1,5.25\n")

	if _, err := ParseConcentrations("concentrations", contents); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadTableSniffsDelimiter(t *testing.T) {
	contents := []byte("Well\tSample\tCq\tQuantity\n" +
		"A01\tST1\t20\t1000\n" +
		"A02\tST2\t25\t31.25\n")

	table, err := ReadTable("qPCR results", contents)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := Clean(table)
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Sample != "ST2" || rows[1].Quantity != 31.25 {
		t.Errorf("bad row: %+v", rows[1])
	}
}
