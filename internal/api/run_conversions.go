package api

import (
	"encoding/json"
	"net/http"

	"winequality-pipeline/internal/database"
	"winequality-pipeline/pkg/api"
)

func convertMetrics(raw []byte) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var metrics map[string]float64
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "invalid metrics stored for run: %v", err)
	}
	return metrics, nil
}

func convertTrainingRun(run database.TrainingRun) (api.TrainingRun, error) {
	metrics, err := convertMetrics(run.Metrics)
	if err != nil {
		return api.TrainingRun{}, err
	}

	out := api.TrainingRun{
		Id:             run.Id,
		Status:         run.Status,
		TrainingData:   run.TrainingData,
		ValidationData: run.ValidationData,
		ModelDest:      run.ModelDest,
		SelectedModel:  run.SelectedModel.String,
		Metrics:        metrics,
		Error:          run.Error.String,
		CreationTime:   run.CreationTime,
	}
	if run.CompletionTime.Valid {
		out.CompletionTime = &run.CompletionTime.Time
	}
	return out, nil
}

func convertPredictionRun(run database.PredictionRun) (api.PredictionRun, error) {
	metrics, err := convertMetrics(run.Metrics)
	if err != nil {
		return api.PredictionRun{}, err
	}

	out := api.PredictionRun{
		Id:           run.Id,
		Status:       run.Status,
		Model:        run.Model,
		Data:         run.Data,
		RowCount:     run.RowCount,
		Metrics:      metrics,
		Error:        run.Error.String,
		CreationTime: run.CreationTime,
	}
	if run.CompletionTime.Valid {
		out.CompletionTime = &run.CompletionTime.Time
	}
	return out, nil
}
