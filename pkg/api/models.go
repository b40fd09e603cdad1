package api

import (
	"time"

	"github.com/google/uuid"
)

type TrainRequest struct {
	TrainingData   string `validate:"required"`
	ValidationData string `validate:"required"`
	ModelDest      string `validate:"required"`
}

type PredictRequest struct {
	Model string `validate:"required"`
	Data  string `validate:"required"`
}

type SubmitResponse struct {
	Message string
	RunId   uuid.UUID
}

type TrainingRun struct {
	Id     uuid.UUID
	Status string

	TrainingData   string
	ValidationData string
	ModelDest      string

	SelectedModel string             `json:"SelectedModel,omitempty"`
	Metrics       map[string]float64 `json:"Metrics,omitempty"`
	Error         string             `json:"Error,omitempty"`

	CreationTime   time.Time
	CompletionTime *time.Time `json:"CompletionTime,omitempty"`
}

type PredictionRun struct {
	Id     uuid.UUID
	Status string

	Model string
	Data  string

	RowCount int
	Metrics  map[string]float64 `json:"Metrics,omitempty"`
	Error    string             `json:"Error,omitempty"`

	CreationTime   time.Time
	CompletionTime *time.Time `json:"CompletionTime,omitempty"`
}
