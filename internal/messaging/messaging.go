package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TrainingQueue   = "training_queue"
	PredictionQueue = "prediction_queue"
	RetryDelay      = 5 * time.Second
	MaxConnectRetry = 5
)

type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

// TrainTaskPayload references a queued training run; the worker reads the
// run's data locations from the registry.
type TrainTaskPayload struct {
	RunId uuid.UUID
}

type PredictTaskPayload struct {
	RunId uuid.UUID
}

type Publisher interface {
	PublishTrainTask(ctx context.Context, payload TrainTaskPayload) error

	PublishPredictTask(ctx context.Context, payload PredictTaskPayload) error

	Close()
}

type Receiver interface {
	Tasks() <-chan Task

	Close()
}
