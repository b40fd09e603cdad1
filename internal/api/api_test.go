package api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	backend "winequality-pipeline/internal/api"
	"winequality-pipeline/internal/database"
	"winequality-pipeline/internal/messaging"
	"winequality-pipeline/pkg/api"
)

func createDB(t *testing.T, create ...any) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	for _, c := range create {
		require.NoError(t, db.Create(c).Error)
	}

	return db
}

func createRouter(db *gorm.DB, queue *messaging.InMemoryQueue) chi.Router {
	service := backend.NewService(db, queue)
	router := chi.NewRouter()
	service.AddRoutes(router)
	return router
}

func TestSubmitTrainingRun(t *testing.T) {
	db := createDB(t)
	queue := messaging.NewInMemoryQueue()
	router := createRouter(db, queue)

	payload := api.TrainRequest{
		TrainingData:   "s3://wine-data/train.csv",
		ValidationData: "s3://wine-data/valid.csv",
		ModelDest:      "s3://wine-models/selected.bin",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/train", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response api.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEqual(t, uuid.Nil, response.RunId)

	// The run is registered as queued and a task is on the queue.
	var run database.TrainingRun
	require.NoError(t, db.First(&run, "id = ?", response.RunId).Error)
	assert.Equal(t, database.JobQueued, run.Status)
	assert.Equal(t, payload.TrainingData, run.TrainingData)

	select {
	case task := <-queue.Tasks():
		assert.Equal(t, messaging.TrainingQueue, task.Type())
		var taskPayload messaging.TrainTaskPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &taskPayload))
		assert.Equal(t, response.RunId, taskPayload.RunId)
	default:
		t.Fatal("expected a training task to be published")
	}
}

func TestSubmitTrainingRunInvalidLocation(t *testing.T) {
	router := createRouter(createDB(t), messaging.NewInMemoryQueue())

	payload := api.TrainRequest{
		TrainingData:   "ftp://host/train.csv",
		ValidationData: "s3://wine-data/valid.csv",
		ModelDest:      "s3://wine-models/selected.bin",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/train", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitTrainingRunMissingFields(t *testing.T) {
	router := createRouter(createDB(t), messaging.NewInMemoryQueue())

	body, err := json.Marshal(api.TrainRequest{TrainingData: "s3://wine-data/train.csv"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/train", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetTrainingRun(t *testing.T) {
	runId := uuid.New()
	completed := time.Now().UTC().Truncate(time.Second)
	db := createDB(t, &database.TrainingRun{
		Id:             runId,
		Status:         database.JobCompleted,
		TrainingData:   "file:///data/train.csv",
		ValidationData: "file:///data/valid.csv",
		ModelDest:      "file:///models/selected.bin",
		SelectedModel:  sql.NullString{String: "logistic_regression", Valid: true},
		Metrics:        []byte(`{"f1":0.91,"accuracy":0.93,"precision":0.9,"recall":0.92}`),
		CreationTime:   completed.Add(-time.Minute),
		CompletionTime: sql.NullTime{Time: completed, Valid: true},
	})
	router := createRouter(db, messaging.NewInMemoryQueue())

	req := httptest.NewRequest(http.MethodGet, "/train/"+runId.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response api.TrainingRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, runId, response.Id)
	assert.Equal(t, database.JobCompleted, response.Status)
	assert.Equal(t, "logistic_regression", response.SelectedModel)
	assert.InDelta(t, 0.91, response.Metrics["f1"], 1e-9)
	require.NotNil(t, response.CompletionTime)
}

func TestGetTrainingRunNotFound(t *testing.T) {
	router := createRouter(createDB(t), messaging.NewInMemoryQueue())

	req := httptest.NewRequest(http.MethodGet, "/train/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTrainingRunsByStatus(t *testing.T) {
	queuedId, failedId := uuid.New(), uuid.New()
	db := createDB(t,
		&database.TrainingRun{Id: queuedId, Status: database.JobQueued, TrainingData: "a", ValidationData: "b", ModelDest: "c", CreationTime: time.Now()},
		&database.TrainingRun{Id: failedId, Status: database.JobFailed, TrainingData: "a", ValidationData: "b", ModelDest: "c", CreationTime: time.Now()},
	)
	router := createRouter(db, messaging.NewInMemoryQueue())

	req := httptest.NewRequest(http.MethodGet, "/train?Status="+database.JobFailed, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response []api.TrainingRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, failedId, response[0].Id)
}

func TestSubmitAndGetPredictionRun(t *testing.T) {
	db := createDB(t)
	queue := messaging.NewInMemoryQueue()
	router := createRouter(db, queue)

	payload := api.PredictRequest{
		Model: "s3://wine-models/selected.bin",
		Data:  "file:///data/score.csv",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response api.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	select {
	case task := <-queue.Tasks():
		assert.Equal(t, messaging.PredictionQueue, task.Type())
	default:
		t.Fatal("expected a prediction task to be published")
	}

	req = httptest.NewRequest(http.MethodGet, "/predict/"+response.RunId.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var run api.PredictionRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, database.JobQueued, run.Status)
	assert.Equal(t, payload.Model, run.Model)
	assert.Nil(t, run.Metrics)
}

func TestHealth(t *testing.T) {
	router := createRouter(createDB(t), messaging.NewInMemoryQueue())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
