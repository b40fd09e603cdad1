package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"winequality-pipeline/internal/database"
	"winequality-pipeline/internal/messaging"
	"winequality-pipeline/internal/storage"
	"winequality-pipeline/pkg/api"
)

// Service exposes the run registry over REST: submitting training and
// prediction runs and polling their status. The actual work happens on
// workers consuming the task queues.
type Service struct {
	db        *gorm.DB
	publisher messaging.Publisher
}

func NewService(db *gorm.DB, publisher messaging.Publisher) *Service {
	return &Service{db: db, publisher: publisher}
}

func (s *Service) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/train", func(r chi.Router) {
		r.Post("/", RestHandler(s.SubmitTrainingRun))
		r.Get("/", RestHandler(s.ListTrainingRuns))
		r.Get("/{run_id}", RestHandler(s.GetTrainingRun))
	})
	r.Route("/predict", func(r chi.Router) {
		r.Post("/", RestHandler(s.SubmitPredictionRun))
		r.Get("/", RestHandler(s.ListPredictionRuns))
		r.Get("/{run_id}", RestHandler(s.GetPredictionRun))
	})
}

func validateLocation(uri, field string) error {
	if uri == "" {
		return CodedErrorf(http.StatusUnprocessableEntity, "missing required field %s", field)
	}
	if _, err := storage.ParseLocation(uri); err != nil {
		return CodedErrorf(http.StatusBadRequest, "invalid %s location %q: %v", field, uri, err)
	}
	return nil
}

func (s *Service) SubmitTrainingRun(r *http.Request) (any, error) {
	req, err := ParseRequest[api.TrainRequest](r)
	if err != nil {
		return nil, err
	}

	if err := validateLocation(req.TrainingData, "TrainingData"); err != nil {
		return nil, err
	}
	if err := validateLocation(req.ValidationData, "ValidationData"); err != nil {
		return nil, err
	}
	if err := validateLocation(req.ModelDest, "ModelDest"); err != nil {
		return nil, err
	}

	ctx := r.Context()

	run := database.TrainingRun{
		Id:             uuid.New(),
		Status:         database.JobQueued,
		TrainingData:   req.TrainingData,
		ValidationData: req.ValidationData,
		ModelDest:      req.ModelDest,
		CreationTime:   time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		slog.Error("error creating training run", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to create training run entry")
	}

	if err := s.publisher.PublishTrainTask(ctx, messaging.TrainTaskPayload{RunId: run.Id}); err != nil {
		slog.Error("error publishing training task", "run_id", run.Id, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to queue training task")
	}

	slog.Info("submitted training run", "run_id", run.Id)
	return api.SubmitResponse{Message: "Training run submitted", RunId: run.Id}, nil
}

func (s *Service) GetTrainingRun(r *http.Request) (any, error) {
	runId, err := URLParamUUID(r, "run_id")
	if err != nil {
		return nil, err
	}

	var run database.TrainingRun
	if err := s.db.WithContext(r.Context()).First(&run, "id = ?", runId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "training run not found")
		}
		slog.Error("error getting training run", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving training run")
	}

	return convertTrainingRun(run)
}

type listRunsParams struct {
	Status string
}

func (s *Service) ListTrainingRuns(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[listRunsParams](r)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(r.Context()).Order("creation_time desc")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var runs []database.TrainingRun
	if err := query.Find(&runs).Error; err != nil {
		slog.Error("error listing training runs", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing training runs")
	}

	out := make([]api.TrainingRun, 0, len(runs))
	for _, run := range runs {
		converted, err := convertTrainingRun(run)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func (s *Service) SubmitPredictionRun(r *http.Request) (any, error) {
	req, err := ParseRequest[api.PredictRequest](r)
	if err != nil {
		return nil, err
	}

	if err := validateLocation(req.Model, "Model"); err != nil {
		return nil, err
	}
	if err := validateLocation(req.Data, "Data"); err != nil {
		return nil, err
	}

	ctx := r.Context()

	run := database.PredictionRun{
		Id:           uuid.New(),
		Status:       database.JobQueued,
		Model:        req.Model,
		Data:         req.Data,
		CreationTime: time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		slog.Error("error creating prediction run", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to create prediction run entry")
	}

	if err := s.publisher.PublishPredictTask(ctx, messaging.PredictTaskPayload{RunId: run.Id}); err != nil {
		slog.Error("error publishing prediction task", "run_id", run.Id, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to queue prediction task")
	}

	slog.Info("submitted prediction run", "run_id", run.Id)
	return api.SubmitResponse{Message: "Prediction run submitted", RunId: run.Id}, nil
}

func (s *Service) GetPredictionRun(r *http.Request) (any, error) {
	runId, err := URLParamUUID(r, "run_id")
	if err != nil {
		return nil, err
	}

	var run database.PredictionRun
	if err := s.db.WithContext(r.Context()).First(&run, "id = ?", runId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "prediction run not found")
		}
		slog.Error("error getting prediction run", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving prediction run")
	}

	return convertPredictionRun(run)
}

func (s *Service) ListPredictionRuns(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[listRunsParams](r)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(r.Context()).Order("creation_time desc")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var runs []database.PredictionRun
	if err := query.Find(&runs).Error; err != nil {
		slog.Error("error listing prediction runs", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing prediction runs")
	}

	out := make([]api.PredictionRun, 0, len(runs))
	for _, run := range runs {
		converted, err := convertPredictionRun(run)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}
