package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// fixedModel returns canned predictions regardless of input.
type fixedModel struct {
	kind  ModelKind
	preds []int
}

func (m *fixedModel) Kind() ModelKind            { return m.kind }
func (m *fixedModel) NumFeatures() int           { return 1 }
func (m *fixedModel) Predict(X *mat.Dense) []int { return m.preds }

func TestSelectModelHigherScoreWins(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := []int{0, 0, 1, 1}

	weak := &fixedModel{kind: LogisticRegression, preds: []int{0, 1, 0, 1}}
	strong := &fixedModel{kind: DecisionTree, preds: []int{0, 0, 1, 1}}

	selected, score, candidates, err := SelectModel(X, y, []Model{weak, strong})
	require.NoError(t, err)

	assert.Equal(t, DecisionTree, selected.Kind())
	assert.Equal(t, 1.0, score.F1)
	require.Len(t, candidates, 2)
}

func TestSelectModelTieBreak(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := []int{0, 0, 1, 1}

	// Identical predictions, identical scores: the first candidate wins.
	first := &fixedModel{kind: LogisticRegression, preds: []int{0, 0, 1, 1}}
	second := &fixedModel{kind: DecisionTree, preds: []int{0, 0, 1, 1}}

	for run := 0; run < 10; run++ {
		selected, _, _, err := SelectModel(X, y, []Model{first, second})
		require.NoError(t, err)
		assert.Equal(t, LogisticRegression, selected.Kind())
	}
}

func TestSelectModelNoCandidates(t *testing.T) {
	X := mat.NewDense(1, 1, []float64{1})

	_, _, _, err := SelectModel(X, []int{0}, nil)
	assert.Error(t, err)
}
