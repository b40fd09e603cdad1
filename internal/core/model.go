package core

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ModelKind identifies which estimator produced a fitted model.
type ModelKind string

const (
	LogisticRegression ModelKind = "logistic_regression"
	DecisionTree       ModelKind = "decision_tree"
)

// ErrTraining marks a trainer failure: an empty training set or a fit that
// diverged. Callers match it with errors.Is.
var ErrTraining = errors.New("training failed")

// Model is a fitted classifier. Predict assumes the matrix width matches
// NumFeatures; callers validate the shape first (see RunPrediction).
// Implementations carry only exported, gob-encodable state so a Bundle can
// persist them.
type Model interface {
	Kind() ModelKind

	NumFeatures() int

	Predict(X *mat.Dense) []int
}

// Trainer fits a model on an assembled feature matrix and binary labels.
// Trainers share no state and may run concurrently.
type Trainer interface {
	Kind() ModelKind

	Fit(X *mat.Dense, y []int) (Model, error)
}

// DefaultTrainers returns the pipeline's candidate estimators in selection
// order. The order matters: the selector breaks score ties in favor of the
// earlier trainer.
func DefaultTrainers(seed int64) []Trainer {
	return []Trainer{
		NewLogisticTrainer(DefaultLogisticParams(seed)),
		NewTreeTrainer(DefaultTreeParams()),
	}
}
