package integrationtests

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winequality-pipeline/internal/core"
	"winequality-pipeline/internal/dataset"
	"winequality-pipeline/internal/storage"
)

const bucketName = "test-bucket"

func setupTestObjectStore(t *testing.T, ctx context.Context) (*storage.S3ObjectStore, string) {
	t.Helper()

	endpoint := setupMinioContainer(t, ctx)

	objectStore, err := storage.NewS3ObjectStore(bucketName, storage.S3ClientConfig{
		Endpoint:        endpoint,
		AccessKeyID:     minioUsername,
		SecretAccessKey: minioPassword,
	})
	require.NoError(t, err)
	require.NoError(t, objectStore.CreateBucket(ctx))

	return objectStore, endpoint
}

func TestS3ObjectStore_PutObject(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	objectStore, _ := setupTestObjectStore(t, ctx)

	key := "test-dir/test-file.txt"
	content := []byte("Test content")

	err := objectStore.PutObject(ctx, key, bytes.NewReader(content))
	require.NoError(t, err)

	obj, err := objectStore.GetObject(ctx, key)
	require.NoError(t, err)
	defer obj.Close()

	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestS3ObjectStore_DeleteObjects(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	objectStore, _ := setupTestObjectStore(t, ctx)

	prefix := "test-dir"

	files := []string{"test-dir/file1.csv", "test-dir/subdir/file2.csv", "other-dir/file3.csv"}
	for _, file := range files {
		require.NoError(t, objectStore.PutObject(ctx, file, bytes.NewReader([]byte("content: "+file))))
	}

	objs, err := objectStore.ListObjects(ctx, prefix)
	require.NoError(t, err)
	assert.Len(t, objs, 2)

	require.NoError(t, objectStore.DeleteObjects(ctx, prefix))

	newObjs, err := objectStore.ListObjects(ctx, prefix)
	require.NoError(t, err)
	assert.Len(t, newObjs, 0)
}

func TestTrainAndPredictAgainstMinio(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	objectStore, endpoint := setupTestObjectStore(t, ctx)

	require.NoError(t, objectStore.PutObject(ctx, "data/train.csv", bytes.NewReader(wineCSV(100, 1))))
	require.NoError(t, objectStore.PutObject(ctx, "data/valid.csv", bytes.NewReader(wineCSV(100, 2))))
	require.NoError(t, objectStore.PutObject(ctx, "data/score.csv", bytes.NewReader(wineCSV(50, 3))))

	resolver := storage.NewResolver(storage.S3ClientConfig{
		Endpoint:        endpoint,
		AccessKeyID:     minioUsername,
		SecretAccessKey: minioPassword,
	})

	trainResult, err := core.RunTraining(ctx, resolver, core.TrainingConfig{
		TrainingData:   "s3://" + bucketName + "/data/train.csv",
		ValidationData: "s3://" + bucketName + "/data/valid.csv",
		ModelDest:      "s3://" + bucketName + "/models/selected.bin",
		Schema:         dataset.WineSchema(),
		Seed:           42,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, trainResult.TrainRows)

	objs, err := objectStore.ListObjects(ctx, "models/")
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Greater(t, objs[0].Size, int64(0))

	predictResult, err := core.RunPrediction(ctx, resolver, core.PredictionConfig{
		Model: "s3://" + bucketName + "/models/selected.bin",
		Data:  "s3://" + bucketName + "/data/score.csv",
	})
	require.NoError(t, err)
	assert.Equal(t, trainResult.Selected, predictResult.Model)
	assert.Len(t, predictResult.Predictions, 50)
	require.NotNil(t, predictResult.Metrics)
}
