package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"winequality-pipeline/internal/dataset"
)

// Assemble builds the feature matrix for a table, taking the schema's feature
// columns in declared order. It is a pure transformation: the same table and
// schema always produce the same matrix.
func Assemble(t *dataset.Table, schema dataset.Schema) (*mat.Dense, error) {
	// A header-only table parses fine but a zero-row matrix cannot exist.
	if t.NumRows() == 0 {
		return nil, fmt.Errorf("table has no data rows: %w", dataset.ErrSchema)
	}

	indices := make([]int, len(schema.Features))
	for i, col := range schema.Features {
		idx, ok := t.ColumnIndex(col)
		if !ok {
			return nil, fmt.Errorf("missing feature column %q: %w", col, dataset.ErrSchema)
		}
		indices[i] = idx
	}

	X := mat.NewDense(t.NumRows(), len(schema.Features), nil)
	for i, row := range t.Rows {
		for j, idx := range indices {
			X.Set(i, j, row[idx])
		}
	}

	return X, nil
}

// Labels binarizes the table's label column at the schema cutoff:
// label >= cutoff maps to class 1, everything below to class 0.
func Labels(t *dataset.Table, schema dataset.Schema) ([]int, error) {
	raw, err := t.Column(schema.Label)
	if err != nil {
		return nil, err
	}

	labels := make([]int, len(raw))
	for i, v := range raw {
		if v >= float64(schema.Cutoff) {
			labels[i] = 1
		}
	}
	return labels, nil
}

// Scaler standardizes feature columns to zero mean and unit variance. The
// fitted parameters travel with the model bundle so prediction input passes
// through the exact transformation the model was trained behind.
type Scaler struct {
	Mean []float64
	Std  []float64
}

func FitScaler(X *mat.Dense) *Scaler {
	rows, cols := X.Dims()

	s := &Scaler{
		Mean: make([]float64, cols),
		Std:  make([]float64, cols),
	}

	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += X.At(i, j)
		}
		s.Mean[j] = sum / float64(rows)

		variance := 0.0
		for i := 0; i < rows; i++ {
			d := X.At(i, j) - s.Mean[j]
			variance += d * d
		}
		s.Std[j] = math.Sqrt(variance / float64(rows))
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}

	return s
}

// Transform returns a scaled copy of X. The input is left untouched.
func (s *Scaler) Transform(X *mat.Dense) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if cols != len(s.Mean) {
		return nil, fmt.Errorf("feature vector width %d does not match fitted scaler width %d: %w", cols, len(s.Mean), dataset.ErrSchema)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Std[j])
		}
	}
	return out, nil
}
