package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// cleanColumnName normalizes a raw header cell: surrounding whitespace is
// dropped and interior spaces become underscores, so "fixed acidity" and
// "fixed_acidity" name the same column.
func cleanColumnName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// ParseCSV reads a semicolon-delimited table. The source files wrap whole
// rows in double quotes, so quotes are stripped wholesale before parsing.
// Every cell must parse as a number; a malformed row fails the whole load.
func ParseCSV(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table data: %w", err)
	}

	cleaned := strings.ReplaceAll(string(raw), `"`, "")

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read table header: %w", errors.Join(ErrSchema, err))
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = cleanColumnName(col)
	}

	var rows [][]float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read table row %d: %w", line, errors.Join(ErrSchema, err))
		}

		row := make([]float64, len(record))
		for i, cell := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("non-numeric value %q in column %q on row %d: %w", cell, columns[i], line, ErrSchema)
			}
			row[i] = value
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}
