package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"gonum.org/v1/gonum/mat"

	"winequality-pipeline/internal/dataset"
	"winequality-pipeline/internal/storage"
)

type PredictionConfig struct {
	Model string
	Data  string

	// Partitions caps the worker pool that scores table chunks; zero means
	// one worker per CPU.
	Partitions int
}

type PredictionResult struct {
	Model       ModelKind
	Rows        int
	Predictions []int

	// Metrics is nil when the input table carries no label column.
	Metrics *Evaluation
}

// RunPrediction executes the prediction mode: load a persisted model,
// validate the input table against its schema, score it, and evaluate when
// a label column is present.
func RunPrediction(ctx context.Context, res *storage.Resolver, cfg PredictionConfig) (*PredictionResult, error) {
	bundle, err := LoadBundle(ctx, res, cfg.Model)
	if err != nil {
		return nil, err
	}

	table, err := dataset.Load(ctx, res, cfg.Data, bundle.Schema, false)
	if err != nil {
		return nil, err
	}

	raw, err := Assemble(table, bundle.Schema)
	if err != nil {
		return nil, err
	}

	_, width := raw.Dims()
	if width != bundle.Model.NumFeatures() {
		return nil, fmt.Errorf("input has %d features but the model expects %d: %w",
			width, bundle.Model.NumFeatures(), dataset.ErrSchema)
	}

	X, err := bundle.Scaler.Transform(raw)
	if err != nil {
		return nil, err
	}

	predictions, err := scorePartitioned(X, bundle.Model, cfg.Partitions)
	if err != nil {
		return nil, err
	}

	result := &PredictionResult{
		Model:       bundle.Model.Kind(),
		Rows:        table.NumRows(),
		Predictions: predictions,
	}

	if table.HasColumn(bundle.Schema.Label) {
		labels, err := Labels(table, bundle.Schema)
		if err != nil {
			return nil, err
		}
		eval := Evaluate(labels, predictions)
		result.Metrics = &eval
	}

	slog.Info("prediction finished", "model", result.Model, "rows", result.Rows, "evaluated", result.Metrics != nil)

	return result, nil
}

// scorePartitioned splits the table into row partitions and scores them on a
// worker pool. Partition boundaries never change the output since rows are
// independent.
func scorePartitioned(X *mat.Dense, model Model, partitions int) ([]int, error) {
	rows, cols := X.Dims()
	if partitions <= 0 {
		partitions = runtime.NumCPU()
	}
	if partitions > rows {
		partitions = max(rows, 1)
	}

	chunk := (rows + partitions - 1) / partitions

	type span struct{ start, end int }
	var spans []span
	for start := 0; start < rows; start += chunk {
		spans = append(spans, span{start, min(start+chunk, rows)})
	}

	parts, err := runParallel(partitions, spans, func(s span) ([]int, error) {
		return model.Predict(X.Slice(s.start, s.end, 0, cols).(*mat.Dense)), nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]int, 0, rows)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out, nil
}

// Report prints the evaluation the way the training job logs it, one metric
// per line.
func (r *PredictionResult) Report(w io.Writer) {
	fmt.Fprintf(w, "model: %s\n", r.Model)
	fmt.Fprintf(w, "rows: %d\n", r.Rows)
	if r.Metrics == nil {
		fmt.Fprintln(w, "no label column present, skipping evaluation")
		return
	}
	fmt.Fprintf(w, "f1: %.4f\n", r.Metrics.F1)
	fmt.Fprintf(w, "accuracy: %.4f\n", r.Metrics.Accuracy)
	fmt.Fprintf(w, "precision: %.4f\n", r.Metrics.Precision)
	fmt.Fprintf(w, "recall: %.4f\n", r.Metrics.Recall)
}
