package plate

import (
	"math"
	"strconv"
	"strings"
)

// Missing is the sentinel used by the instrument export for wells without a
// value.
const Missing = "-"

// Row is one cleaned well: sample identifiers are uppercase and Cq/Quantity
// are either finite numbers or NaN. The Missing sentinel never survives
// cleaning.
type Row struct {
	Well     string
	Sample   string
	Cq       float64
	Quantity float64
}

// Clean extracts the {Well, Sample, Cq, Quantity} columns from a raw qPCR
// table, uppercases sample identifiers, and coerces the numeric columns.
// Missing-sentinel cells and unparseable numbers degrade to NaN rather than
// erroring; a missing column is fatal. Rows with an empty sample identifier
// are dropped. Clean is idempotent over its own output.
func Clean(t *Table) ([]Row, error) {
	wellIdx, err := t.Column("Well")
	if err != nil {
		return nil, err
	}
	sampleIdx, err := t.Column("Sample")
	if err != nil {
		return nil, err
	}
	cqIdx, err := t.Column("Cq")
	if err != nil {
		return nil, err
	}
	qtyIdx, err := t.Column("Quantity")
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(t.Records))
	for _, record := range t.Records {
		if len(record) <= wellIdx || len(record) <= sampleIdx ||
			len(record) <= cqIdx || len(record) <= qtyIdx {
			// Short record; treat like an all-missing well.
			continue
		}

		sample := strings.ToUpper(strings.TrimSpace(record[sampleIdx]))
		if sample == "" || sample == Missing {
			// A missing sample identifier leaves the well unattributable.
			continue
		}

		rows = append(rows, Row{
			Well:     strings.TrimSpace(record[wellIdx]),
			Sample:   sample,
			Cq:       CoerceNumeric(record[cqIdx]),
			Quantity: CoerceNumeric(record[qtyIdx]),
		})
	}

	return rows, nil
}

// CoerceNumeric parses a raw cell into a float64. Cq and quantity values are
// only meaningful as finite non-negative numbers, so the Missing sentinel,
// the empty string, anything unparseable, infinities, and negative numbers
// all become NaN; malformed cells never abort the run.
func CoerceNumeric(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == Missing || cell == "" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(v, 0) || v < 0 {
		return math.NaN()
	}

	return v
}
