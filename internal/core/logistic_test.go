package core

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// separableData builds a linearly separable two-feature set: positives
// cluster around (2, 2), negatives around (-2, -2).
func separableData(n int, seed int64) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, 2, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		center := -2.0
		if i%2 == 0 {
			center = 2.0
			y[i] = 1
		}
		X.Set(i, 0, center+rng.NormFloat64()*0.5)
		X.Set(i, 1, center+rng.NormFloat64()*0.5)
	}
	return X, y
}

func TestLogisticFitSeparable(t *testing.T) {
	X, y := separableData(200, 7)

	trainer := NewLogisticTrainer(DefaultLogisticParams(1))
	model, err := trainer.Fit(X, y)
	require.NoError(t, err)

	assert.Equal(t, LogisticRegression, model.Kind())
	assert.Equal(t, 2, model.NumFeatures())

	eval := Evaluate(y, model.Predict(X))
	assert.Greater(t, eval.Accuracy, 0.95)
}

func TestLogisticFitDeterministic(t *testing.T) {
	X, y := separableData(100, 7)

	first, err := NewLogisticTrainer(DefaultLogisticParams(3)).Fit(X, y)
	require.NoError(t, err)
	second, err := NewLogisticTrainer(DefaultLogisticParams(3)).Fit(X, y)
	require.NoError(t, err)

	assert.Equal(t, first.(*LogisticModel).Weights, second.(*LogisticModel).Weights)
	assert.Equal(t, first.(*LogisticModel).Bias, second.(*LogisticModel).Bias)
}

func TestLogisticFitEmpty(t *testing.T) {
	trainer := NewLogisticTrainer(DefaultLogisticParams(1))

	_, err := trainer.Fit(&mat.Dense{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTraining))
}

func TestLogisticOnEpochHook(t *testing.T) {
	X, y := separableData(20, 7)

	params := DefaultLogisticParams(1)
	params.Epochs = 5

	trainer := NewLogisticTrainer(params)
	epochs := 0
	trainer.OnEpoch = func(int) { epochs++ }

	_, err := trainer.Fit(X, y)
	require.NoError(t, err)
	assert.Equal(t, 5, epochs)
}
