package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	JobQueued    string = "QUEUED"
	JobRunning   string = "RUNNING"
	JobCompleted string = "COMPLETED"
	JobFailed    string = "FAILED"
)

// TrainingRun records one submitted training job: where its data lives, where
// the selected model was written, and how it scored.
type TrainingRun struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Status string `gorm:"size:20;not null"`

	TrainingData   string `gorm:"not null"`
	ValidationData string `gorm:"not null"`
	ModelDest      string `gorm:"not null"`

	SelectedModel sql.NullString
	Metrics       datatypes.JSON

	Error sql.NullString

	CreationTime   time.Time
	CompletionTime sql.NullTime
}

// PredictionRun records one submitted prediction job against a persisted
// model. Metrics stays null when the scored table carried no label column.
type PredictionRun struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Status string `gorm:"size:20;not null"`

	Model string `gorm:"not null"`
	Data  string `gorm:"not null"`

	RowCount int `gorm:"default:0"`
	Metrics  datatypes.JSON

	Error sql.NullString

	CreationTime   time.Time
	CompletionTime sql.NullTime
}
