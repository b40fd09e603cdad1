package core

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

type LogisticParams struct {
	LearningRate float64
	Epochs       int
	BatchSize    int
	L2           float64
	Seed         int64
}

func DefaultLogisticParams(seed int64) LogisticParams {
	return LogisticParams{
		LearningRate: 0.1,
		Epochs:       200,
		BatchSize:    32,
		L2:           1e-4,
		Seed:         seed,
	}
}

// LogisticTrainer fits a binary logistic regression with mini-batch gradient
// descent. OnEpoch, when set, is called once per finished epoch (the CLI
// hangs a progress bar on it).
type LogisticTrainer struct {
	params  LogisticParams
	OnEpoch func(epoch int)
}

func NewLogisticTrainer(params LogisticParams) *LogisticTrainer {
	return &LogisticTrainer{params: params}
}

func (t *LogisticTrainer) Kind() ModelKind {
	return LogisticRegression
}

func (t *LogisticTrainer) Fit(X *mat.Dense, y []int) (Model, error) {
	n, d := X.Dims()
	if n == 0 {
		return nil, fmt.Errorf("empty training set: %w", ErrTraining)
	}
	if len(y) != n {
		return nil, fmt.Errorf("have %d rows but %d labels: %w", n, len(y), ErrTraining)
	}

	p := t.params
	if p.BatchSize <= 0 || p.BatchSize > n {
		p.BatchSize = n
	}

	rng := rand.New(rand.NewSource(p.Seed))
	w := mat.NewVecDense(d, nil)
	bias := 0.0

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	batch := mat.NewDense(p.BatchSize, d, nil)
	diff := mat.NewVecDense(p.BatchSize, nil)
	grad := mat.NewVecDense(d, nil)

	for epoch := 0; epoch < p.Epochs; epoch++ {
		rng.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		for start := 0; start < n; start += p.BatchSize {
			end := min(start+p.BatchSize, n)
			m := end - start

			xb := batch.Slice(0, m, 0, d).(*mat.Dense)
			for i := 0; i < m; i++ {
				xb.SetRow(i, X.RawRowView(perm[start+i]))
			}

			// Forward pass: residual = sigmoid(Xw + b) - y.
			db := diff.SliceVec(0, m).(*mat.VecDense)
			db.MulVec(xb, w)
			biasGrad := 0.0
			for i := 0; i < m; i++ {
				r := sigmoid(db.AtVec(i)+bias) - float64(y[perm[start+i]])
				db.SetVec(i, r)
				biasGrad += r
			}

			// Backward pass: grad = Xᵀ residual / m + l2 w.
			grad.MulVec(xb.T(), db)
			grad.ScaleVec(1/float64(m), grad)
			grad.AddScaledVec(grad, p.L2, w)

			w.AddScaledVec(w, -p.LearningRate, grad)
			bias -= p.LearningRate * biasGrad / float64(m)
		}

		if t.OnEpoch != nil {
			t.OnEpoch(epoch)
		}
	}

	weights := make([]float64, d)
	for j := 0; j < d; j++ {
		v := w.AtVec(j)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("logistic regression diverged, weight %d is %v: %w", j, v, ErrTraining)
		}
		weights[j] = v
	}

	return &LogisticModel{Weights: weights, Bias: bias, Features: d}, nil
}

// LogisticModel holds fitted logistic-regression parameters.
type LogisticModel struct {
	Weights  []float64
	Bias     float64
	Features int
}

var _ Model = (*LogisticModel)(nil)

func (m *LogisticModel) Kind() ModelKind {
	return LogisticRegression
}

func (m *LogisticModel) NumFeatures() int {
	return m.Features
}

// Proba returns the positive-class probability per row.
func (m *LogisticModel) Proba(X *mat.Dense) []float64 {
	n, _ := X.Dims()
	w := mat.NewVecDense(len(m.Weights), m.Weights)

	var z mat.VecDense
	z.MulVec(X, w)

	out := make([]float64, n)
	for i := range out {
		out[i] = sigmoid(z.AtVec(i) + m.Bias)
	}
	return out
}

func (m *LogisticModel) Predict(X *mat.Dense) []int {
	proba := m.Proba(X)
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
