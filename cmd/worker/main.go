package main

import (
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"winequality-pipeline/internal/config"
	"winequality-pipeline/internal/database"
	"winequality-pipeline/internal/messaging"
	"winequality-pipeline/internal/storage"
)

// The worker command consumes the RabbitMQ task queues and executes training
// and prediction runs. Concurrency is per process via CONCURRENCY; run more
// replicas to scale further.
func main() {
	log.Println("Starting Worker Process...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	schema, err := cfg.Schema()
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer receiver.Close()

	worker := &messaging.Worker{
		DB:       db,
		Resolver: storage.NewResolver(cfg.S3ClientConfig()),
		Schema:   schema,
		Seed:     cfg.RandomSeed,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	concurrency := cfg.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			worker.Run(ctx, receiver)
		}()
	}

	log.Println("Worker started. Waiting for tasks. Press Ctrl+C to exit.")
	wg.Wait()
	log.Println("Worker process stopped.")
}
