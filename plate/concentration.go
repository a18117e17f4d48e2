package plate

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/qpcrcalib"
	"github.com/gocarina/gocsv"
)

// Concentration is one row of the companion concentration table. It is
// carried through the run for cross-referencing against predicted unknowns
// but is not consumed by the calibration math.
type Concentration struct {
	Sample       string  `csv:"Sample"`
	FinalNgPerUL float64 `csv:"Final Concentration (ng/uL)"`
}

// LoadConcentrations reads the concentration table at path. Both required
// columns must be present; their absence is fatal before any computation.
func LoadConcentrations(path string) ([]Concentration, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return ParseConcentrations(path, contents)
}

// ParseConcentrations parses concentration-table contents, validating the
// schema before handing the bytes to gocsv.
func ParseConcentrations(name string, contents []byte) ([]Concentration, error) {
	delim := qpcrcalib.DetermineDelimiter(bytes.NewReader(contents))

	cr := csv.NewReader(bytes.NewReader(contents))
	cr.Comma = delim
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		return nil, pfx.Err(err)
	}

	for _, required := range []string{"Sample", "Final Concentration (ng/uL)"} {
		if !containsColumn(header, required) {
			return nil, fmt.Errorf("%w: %q in table %s", ErrMissingColumn, required, name)
		}
	}

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delim
		r.LazyQuotes = true
		return r
	})

	records := []*Concentration{}
	if err := gocsv.UnmarshalBytes(contents, &records); err != nil {
		return nil, pfx.Err(err)
	}

	out := make([]Concentration, 0, len(records))
	for _, record := range records {
		record.Sample = strings.ToUpper(strings.TrimSpace(record.Sample))
		out = append(out, *record)
	}

	return out, nil
}

func containsColumn(header []string, name string) bool {
	for _, col := range header {
		if strings.TrimSpace(col) == name {
			return true
		}
	}

	return false
}
