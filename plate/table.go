// Package plate models one qPCR plate run as exported by the instrument
// software: a raw tabular file with named columns, cleaned into typed rows
// whose sample identifiers classify each well as a standard, a blank, or an
// unknown.
package plate

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/qpcrcalib"
	"github.com/extrame/xls"
)

// ErrMissingColumn indicates that a required column is absent from an input
// table. This is a schema error and is always fatal to the run.
var ErrMissingColumn = errors.New("required column missing")

// Table is a raw named-column table: one header row plus data records, all
// still strings. It is the handoff format between file parsing and cleaning.
type Table struct {
	Name    string
	header  map[string]int
	Records [][]string
}

// NewTable builds a Table from a header row and data records.
func NewTable(name string, header []string, records [][]string) *Table {
	t := &Table{Name: name, header: make(map[string]int), Records: records}
	for i, col := range header {
		t.header[strings.TrimSpace(col)] = i
	}

	return t
}

// Column returns the index of the named column, or ErrMissingColumn if the
// table has no such column.
func (t *Table) Column(name string) (int, error) {
	i, ok := t.header[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q in table %s", ErrMissingColumn, name, t.Name)
	}

	return i, nil
}

// ReadTable parses a delimited text table. The delimiter is sniffed from the
// file contents rather than assumed from the extension.
func ReadTable(name string, contents []byte) (*Table, error) {
	delim := qpcrcalib.DetermineDelimiter(bytes.NewReader(contents))

	cr := csv.NewReader(bytes.NewReader(contents))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	entries, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	if len(entries) < 1 {
		return nil, fmt.Errorf("no entries in table %s", name)
	}

	return NewTable(name, entries[0], entries[1:]), nil
}

// ReadXLSTable extracts the first sheet of a legacy .xls workbook into a
// Table. Some instrument software only exports this format.
func ReadXLSTable(name, path string) (*Table, error) {
	workbook, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, pfx.Err(err)
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("no sheets in workbook %s", path)
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := sheet.Row(rowID)
		if row == nil {
			continue
		}

		record := make([]string, 0, row.LastCol()+1)
		for colID := 0; colID <= row.LastCol(); colID++ {
			record = append(record, row.Col(colID))
		}
		records = append(records, record)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("no entries in table %s", name)
	}

	return NewTable(name, records[0], records[1:]), nil
}

// OpenTable reads the table at path, dispatching on the file extension:
// legacy .xls workbooks are parsed as spreadsheets, everything else as
// delimiter-sniffed text.
func OpenTable(name, path string) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xls") {
		return ReadXLSTable(name, path)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return ReadTable(name, contents)
}
