package core

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

type TreeParams struct {
	MaxDepth       int
	MinSamplesLeaf int
}

// DefaultTreeParams caps depth at 6, which is plenty for the wine feature
// set. The tree is fully deterministic, so no seed is involved.
func DefaultTreeParams() TreeParams {
	return TreeParams{
		MaxDepth:       6,
		MinSamplesLeaf: 2,
	}
}

// TreeTrainer fits a CART-style binary classification tree using gini
// impurity. Splits are numeric thresholds: x <= threshold goes left.
type TreeTrainer struct {
	params TreeParams
}

func NewTreeTrainer(params TreeParams) *TreeTrainer {
	return &TreeTrainer{params: params}
}

func (t *TreeTrainer) Kind() ModelKind {
	return DecisionTree
}

func (t *TreeTrainer) Fit(X *mat.Dense, y []int) (Model, error) {
	n, d := X.Dims()
	if n == 0 {
		return nil, fmt.Errorf("empty training set: %w", ErrTraining)
	}
	if len(y) != n {
		return nil, fmt.Errorf("have %d rows but %d labels: %w", n, len(y), ErrTraining)
	}

	builder := &treeBuilder{
		X:      X,
		y:      y,
		params: t.params,
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	root := builder.build(idx, 0)
	return &TreeModel{Root: root, Features: d}, nil
}

type treeBuilder struct {
	X      *mat.Dense
	y      []int
	params TreeParams
}

func (b *treeBuilder) build(idx []int, depth int) *TreeNode {
	positives := 0
	for _, i := range idx {
		positives += b.y[i]
	}

	leaf := &TreeNode{Leaf: true}
	if positives*2 >= len(idx) {
		leaf.Class = 1
	}

	pure := positives == 0 || positives == len(idx)
	if pure || depth >= b.params.MaxDepth || len(idx) < 2*b.params.MinSamplesLeaf {
		return leaf
	}

	feature, threshold, ok := b.bestSplit(idx, positives)
	if !ok {
		return leaf
	}

	var left, right []int
	for _, i := range idx {
		if b.X.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.params.MinSamplesLeaf || len(right) < b.params.MinSamplesLeaf {
		return leaf
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

// bestSplit scans every feature for the threshold with the lowest weighted
// gini impurity. Candidate thresholds are midpoints between consecutive
// distinct values.
func (b *treeBuilder) bestSplit(idx []int, positives int) (int, float64, bool) {
	_, d := b.X.Dims()
	n := len(idx)

	parentGini := giniBinary(positives, n)

	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := parentGini

	order := make([]int, n)
	for feature := 0; feature < d; feature++ {
		copy(order, idx)
		sort.Slice(order, func(i, j int) bool {
			return b.X.At(order[i], feature) < b.X.At(order[j], feature)
		})

		leftPos, leftN := 0, 0
		for k := 0; k < n-1; k++ {
			leftPos += b.y[order[k]]
			leftN++

			cur, next := b.X.At(order[k], feature), b.X.At(order[k+1], feature)
			if cur == next {
				continue
			}

			rightPos := positives - leftPos
			rightN := n - leftN
			impurity := (float64(leftN)*giniBinary(leftPos, leftN) +
				float64(rightN)*giniBinary(rightPos, rightN)) / float64(n)

			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func giniBinary(positives, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(positives) / float64(n)
	return 2 * p * (1 - p)
}

// TreeNode is one node of a fitted tree. Internal nodes route on
// x[Feature] <= Threshold; leaves carry the majority class.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Leaf      bool
	Class     int
}

// TreeModel holds a fitted decision tree.
type TreeModel struct {
	Root     *TreeNode
	Features int
}

var _ Model = (*TreeModel)(nil)

func (m *TreeModel) Kind() ModelKind {
	return DecisionTree
}

func (m *TreeModel) NumFeatures() int {
	return m.Features
}

func (m *TreeModel) Predict(X *mat.Dense) []int {
	n, _ := X.Dims()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		node := m.Root
		for !node.Leaf {
			if X.At(i, node.Feature) <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		out[i] = node.Class
	}
	return out
}
