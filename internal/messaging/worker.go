package messaging

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"winequality-pipeline/internal/core"
	"winequality-pipeline/internal/database"
	"winequality-pipeline/internal/dataset"
	"winequality-pipeline/internal/storage"
)

// Worker drains the task queues and executes training and prediction runs,
// recording outcomes on the run registry rows.
type Worker struct {
	DB       *gorm.DB
	Resolver *storage.Resolver
	Schema   dataset.Schema
	Seed     int64
}

// Run consumes tasks until the receiver's channel closes or the context is
// cancelled. A task failure is recorded and does not stop the loop.
func (w *Worker) Run(ctx context.Context, receiver Receiver) {
	slog.Info("worker started, waiting for tasks")

	tasks := receiver.Tasks()
	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopping", "reason", ctx.Err())
			return
		case task, ok := <-tasks:
			if !ok {
				slog.Info("task channel closed, worker stopping")
				return
			}
			w.processTask(ctx, task)
		}
	}
}

func (w *Worker) processTask(ctx context.Context, task Task) {
	var err error

	switch task.Type() {
	case TrainingQueue:
		var payload TrainTaskPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			slog.Error("failed to unmarshal training task, discarding", "error", err, "body", string(task.Payload()))
			task.Reject() //nolint:errcheck
			return
		}
		err = w.handleTrain(ctx, payload)

	case PredictionQueue:
		var payload PredictTaskPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			slog.Error("failed to unmarshal prediction task, discarding", "error", err, "body", string(task.Payload()))
			task.Reject() //nolint:errcheck
			return
		}
		err = w.handlePredict(ctx, payload)

	default:
		slog.Error("received task from unknown queue, discarding", "queue", task.Type())
		task.Reject() //nolint:errcheck
		return
	}

	if err != nil {
		slog.Error("task failed", "queue", task.Type(), "error", err)
		task.Nack() //nolint:errcheck
		return
	}

	task.Ack() //nolint:errcheck
}

func (w *Worker) handleTrain(ctx context.Context, payload TrainTaskPayload) error {
	slog.Info("handling training run", "run_id", payload.RunId)

	var run database.TrainingRun
	if err := w.DB.WithContext(ctx).First(&run, "id = ?", payload.RunId).Error; err != nil {
		return fmt.Errorf("failed to load training run %s: %w", payload.RunId, err)
	}

	if err := database.UpdateTrainingRunStatus(ctx, w.DB, run.Id, database.JobRunning); err != nil {
		slog.Warn("failed to mark training run as running", "run_id", run.Id, "error", err)
	}

	result, err := core.RunTraining(ctx, w.Resolver, core.TrainingConfig{
		TrainingData:   run.TrainingData,
		ValidationData: run.ValidationData,
		ModelDest:      run.ModelDest,
		Schema:         w.Schema,
		Seed:           w.Seed,
	})
	if err != nil {
		w.failTrainingRun(ctx, run.Id, err)
		return fmt.Errorf("training run %s failed: %w", run.Id, err)
	}

	metrics, err := database.MarshalMetrics(result.Metrics.Map())
	if err != nil {
		w.failTrainingRun(ctx, run.Id, err)
		return err
	}

	updates := map[string]any{
		"selected_model": string(result.Selected),
		"metrics":        metrics,
	}
	if err := w.DB.WithContext(ctx).Model(&database.TrainingRun{Id: run.Id}).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to record training result for run %s: %w", run.Id, err)
	}

	return database.UpdateTrainingRunStatus(ctx, w.DB, run.Id, database.JobCompleted)
}

func (w *Worker) handlePredict(ctx context.Context, payload PredictTaskPayload) error {
	slog.Info("handling prediction run", "run_id", payload.RunId)

	var run database.PredictionRun
	if err := w.DB.WithContext(ctx).First(&run, "id = ?", payload.RunId).Error; err != nil {
		return fmt.Errorf("failed to load prediction run %s: %w", payload.RunId, err)
	}

	if err := database.UpdatePredictionRunStatus(ctx, w.DB, run.Id, database.JobRunning); err != nil {
		slog.Warn("failed to mark prediction run as running", "run_id", run.Id, "error", err)
	}

	result, err := core.RunPrediction(ctx, w.Resolver, core.PredictionConfig{
		Model: run.Model,
		Data:  run.Data,
	})
	if err != nil {
		w.failPredictionRun(ctx, run.Id, err)
		return fmt.Errorf("prediction run %s failed: %w", run.Id, err)
	}

	updates := map[string]any{"row_count": result.Rows}
	if result.Metrics != nil {
		metrics, err := database.MarshalMetrics(result.Metrics.Map())
		if err != nil {
			w.failPredictionRun(ctx, run.Id, err)
			return err
		}
		updates["metrics"] = metrics
	}
	if err := w.DB.WithContext(ctx).Model(&database.PredictionRun{Id: run.Id}).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to record prediction result for run %s: %w", run.Id, err)
	}

	return database.UpdatePredictionRunStatus(ctx, w.DB, run.Id, database.JobCompleted)
}

func (w *Worker) failTrainingRun(ctx context.Context, runId uuid.UUID, err error) {
	if dbErr := w.DB.WithContext(ctx).Model(&database.TrainingRun{Id: runId}).
		Update("error", sql.NullString{String: err.Error(), Valid: true}).Error; dbErr != nil {
		slog.Error("failed to record training run error", "run_id", runId, "error", dbErr)
	}
	database.UpdateTrainingRunStatus(ctx, w.DB, runId, database.JobFailed) //nolint:errcheck
}

func (w *Worker) failPredictionRun(ctx context.Context, runId uuid.UUID, err error) {
	if dbErr := w.DB.WithContext(ctx).Model(&database.PredictionRun{Id: runId}).
		Update("error", sql.NullString{String: err.Error(), Valid: true}).Error; dbErr != nil {
		slog.Error("failed to record prediction run error", "run_id", runId, "error", dbErr)
	}
	database.UpdatePredictionRunStatus(ctx, w.DB, runId, database.JobFailed) //nolint:errcheck
}
