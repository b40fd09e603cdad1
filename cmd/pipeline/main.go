package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"winequality-pipeline/internal/config"
	"winequality-pipeline/internal/core"
	"winequality-pipeline/internal/storage"
)

// The pipeline command runs one training or prediction pass and exits. It is
// the batch-mode entrypoint; the server and worker commands cover the service
// deployment.
func main() {
	var (
		train   = flag.Bool("train", false, "train candidate models and persist the best one")
		predict = flag.Bool("predict", false, "score a dataset with a persisted model")

		trainingData   = flag.String("training-data", "", "training dataset location (file://, s3://, http://)")
		validationData = flag.String("validation-data", "", "validation dataset location")
		modelDest      = flag.String("model-dest", "", "destination for the selected model")

		model = flag.String("model", "", "persisted model location")
		data  = flag.String("data", "", "dataset to score")

		partitions = flag.Int("partitions", 0, "prediction worker count, defaults to CPU count")
	)
	flag.Parse()

	if *train == *predict {
		fmt.Fprintln(os.Stderr, "exactly one of --train or --predict is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	schema, err := cfg.Schema()
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	resolver := storage.NewResolver(cfg.S3ClientConfig())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *train {
		if *trainingData == "" || *validationData == "" || *modelDest == "" {
			fmt.Fprintln(os.Stderr, "--train requires --training-data, --validation-data and --model-dest")
			os.Exit(2)
		}

		result, err := core.RunTraining(ctx, resolver, core.TrainingConfig{
			TrainingData:   *trainingData,
			ValidationData: *validationData,
			ModelDest:      *modelDest,
			Schema:         schema,
			Seed:           cfg.RandomSeed,
			Progress:       true,
		})
		if err != nil {
			log.Fatalf("Training failed: %v", err)
		}

		fmt.Printf("selected model: %s\n", result.Selected)
		for _, candidate := range result.Scores {
			fmt.Printf("candidate %s: f1 %.4f\n", candidate.Model, candidate.F1)
		}
		fmt.Printf("f1: %.4f\n", result.Metrics.F1)
		fmt.Printf("accuracy: %.4f\n", result.Metrics.Accuracy)
		fmt.Printf("precision: %.4f\n", result.Metrics.Precision)
		fmt.Printf("recall: %.4f\n", result.Metrics.Recall)
		fmt.Printf("model written to %s\n", result.ModelDest)
		return
	}

	if *model == "" || *data == "" {
		fmt.Fprintln(os.Stderr, "--predict requires --model and --data")
		os.Exit(2)
	}

	result, err := core.RunPrediction(ctx, resolver, core.PredictionConfig{
		Model:      *model,
		Data:       *data,
		Partitions: *partitions,
	})
	if err != nil {
		log.Fatalf("Prediction failed: %v", err)
	}

	result.Report(os.Stdout)
}
