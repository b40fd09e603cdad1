package dataset

import "fmt"

// Table is an immutable collection of uniformly-schemed numeric rows. Row
// order carries no meaning; transformations build new tables rather than
// mutating one in place.
type Table struct {
	Columns []string
	Rows    [][]float64
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, col := range t.Columns {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Require fails with ErrSchema unless every named column is present.
func (t *Table) Require(columns ...string) error {
	for _, col := range columns {
		if !t.HasColumn(col) {
			return fmt.Errorf("missing expected column %q (have %v): %w", col, t.Columns, ErrSchema)
		}
	}
	return nil
}

// Column copies out the values of a named column.
func (t *Table) Column(name string) ([]float64, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("missing expected column %q: %w", name, ErrSchema)
	}

	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}
