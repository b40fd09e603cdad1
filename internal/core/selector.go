package core

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// Candidate pairs a fitted model with its validation score.
type Candidate struct {
	Model Model
	Score Evaluation
}

// SelectModel scores every fitted model on the validation set and returns
// the one with the strictly higher weighted F1, along with its evaluation
// and the per-candidate scores. On an exact tie the earliest candidate in
// trainer order wins, so the logistic model beats the tree; selection must
// never depend on map iteration or goroutine scheduling order.
func SelectModel(X *mat.Dense, y []int, models []Model) (Model, Evaluation, []Candidate, error) {
	if len(models) == 0 {
		return nil, Evaluation{}, nil, fmt.Errorf("no candidate models to select from: %w", ErrTraining)
	}

	candidates := make([]Candidate, len(models))
	for i, model := range models {
		candidates[i] = Candidate{Model: model, Score: Evaluate(y, model.Predict(X))}
		slog.Info("scored candidate model",
			"model", model.Kind(),
			"f1", candidates[i].Score.F1,
			"accuracy", candidates[i].Score.Accuracy)
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score.F1 > candidates[best].Score.F1 {
			best = i
		}
	}

	return candidates[best].Model, candidates[best].Score, candidates, nil
}
