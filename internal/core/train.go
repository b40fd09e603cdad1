package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"winequality-pipeline/internal/dataset"
	"winequality-pipeline/internal/storage"
)

type TrainingConfig struct {
	TrainingData   string
	ValidationData string
	ModelDest      string
	Schema         dataset.Schema
	Seed           int64

	// Trainers overrides the default candidate set; tests use it.
	Trainers []Trainer
	// Progress draws an epoch progress bar on stderr when set (CLI mode).
	Progress bool
}

// CandidateScore records one candidate's validation F1. TrainingResult keeps
// them in trainer order so reports read the same on every run.
type CandidateScore struct {
	Model ModelKind
	F1    float64
}

type TrainingResult struct {
	Selected  ModelKind
	Metrics   Evaluation
	Scores    []CandidateScore
	ModelDest string
	TrainRows int
	ValidRows int
}

// RunTraining executes the training mode end to end: load both tables,
// assemble and scale features, fit the candidate models, select the better
// one on the validation table, and persist it. Any stage error aborts the
// run; there is no retry and no partial success.
func RunTraining(ctx context.Context, res *storage.Resolver, cfg TrainingConfig) (*TrainingResult, error) {
	train, err := dataset.Load(ctx, res, cfg.TrainingData, cfg.Schema, true)
	if err != nil {
		return nil, err
	}
	valid, err := dataset.Load(ctx, res, cfg.ValidationData, cfg.Schema, true)
	if err != nil {
		return nil, err
	}

	if train.NumRows() == 0 {
		return nil, fmt.Errorf("training dataset %s has no rows: %w", cfg.TrainingData, ErrTraining)
	}
	if valid.NumRows() == 0 {
		return nil, fmt.Errorf("validation dataset %s has no rows: %w", cfg.ValidationData, ErrTraining)
	}

	rawTrain, err := Assemble(train, cfg.Schema)
	if err != nil {
		return nil, err
	}
	yTrain, err := Labels(train, cfg.Schema)
	if err != nil {
		return nil, err
	}

	rawValid, err := Assemble(valid, cfg.Schema)
	if err != nil {
		return nil, err
	}
	yValid, err := Labels(valid, cfg.Schema)
	if err != nil {
		return nil, err
	}

	scaler := FitScaler(rawTrain)
	xTrain, err := scaler.Transform(rawTrain)
	if err != nil {
		return nil, err
	}
	xValid, err := scaler.Transform(rawValid)
	if err != nil {
		return nil, err
	}

	trainers := cfg.Trainers
	if trainers == nil {
		trainers = DefaultTrainers(cfg.Seed)
	}
	if cfg.Progress {
		attachProgress(trainers)
	}

	slog.Info("fitting candidate models", "candidates", len(trainers), "rows", train.NumRows())

	// The trainers have no data dependency on each other, so they fit
	// concurrently; selection below is the join point.
	models, err := runParallel(len(trainers), trainers, func(t Trainer) (Model, error) {
		start := time.Now()
		model, err := t.Fit(xTrain, yTrain)
		if err != nil {
			return nil, fmt.Errorf("failed to fit %s: %w", t.Kind(), err)
		}
		slog.Info("model fitted", "model", t.Kind(), "duration", time.Since(start))
		return model, nil
	})
	if err != nil {
		return nil, err
	}

	selected, metrics, candidates, err := SelectModel(xValid, yValid, models)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		Schema:    cfg.Schema,
		Scaler:    scaler,
		Model:     selected,
		TrainedAt: time.Now().UTC(),
	}
	if err := SaveBundle(ctx, res, cfg.ModelDest, bundle); err != nil {
		return nil, err
	}

	scores := make([]CandidateScore, len(candidates))
	for i, c := range candidates {
		scores[i] = CandidateScore{Model: c.Model.Kind(), F1: c.Score.F1}
	}

	return &TrainingResult{
		Selected:  selected.Kind(),
		Metrics:   metrics,
		Scores:    scores,
		ModelDest: cfg.ModelDest,
		TrainRows: train.NumRows(),
		ValidRows: valid.NumRows(),
	}, nil
}

func attachProgress(trainers []Trainer) {
	for _, t := range trainers {
		if lt, ok := t.(*LogisticTrainer); ok {
			bar := progressbar.Default(int64(lt.params.Epochs), "fitting logistic regression")
			lt.OnEpoch = func(int) { _ = bar.Add(1) }
		}
	}
}
