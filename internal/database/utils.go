package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func UpdateTrainingRunStatus(ctx context.Context, txn *gorm.DB, runId uuid.UUID, status string) error {
	updates := map[string]any{"status": status}
	if status == JobCompleted || status == JobFailed {
		updates["completion_time"] = time.Now().UTC()
	}

	if err := txn.WithContext(ctx).Model(&TrainingRun{Id: runId}).Updates(updates).Error; err != nil {
		slog.Error("error updating training run status", "run_id", runId, "status", status, "error", err)
		return err
	}
	return nil
}

func UpdatePredictionRunStatus(ctx context.Context, txn *gorm.DB, runId uuid.UUID, status string) error {
	updates := map[string]any{"status": status}
	if status == JobCompleted || status == JobFailed {
		updates["completion_time"] = time.Now().UTC()
	}

	if err := txn.WithContext(ctx).Model(&PredictionRun{Id: runId}).Updates(updates).Error; err != nil {
		slog.Error("error updating prediction run status", "run_id", runId, "status", status, "error", err)
		return err
	}
	return nil
}

// MarshalMetrics serializes an evaluation for the registry's JSON column.
func MarshalMetrics(metrics map[string]float64) ([]byte, error) {
	data, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("could not marshal metrics: %w", err)
	}
	return data, nil
}
