package core

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"log/slog"
	"time"

	"winequality-pipeline/internal/dataset"
	"winequality-pipeline/internal/storage"
)

func init() {
	gob.Register(&LogisticModel{})
	gob.Register(&TreeModel{})
}

// Bundle is the persisted form of a selected model: the fitted classifier,
// the scaler it was trained behind, and the schema its input must match.
// Persisting and reloading a bundle yields identical predictions.
type Bundle struct {
	Schema    dataset.Schema
	Scaler    *Scaler
	Model     Model
	TrainedAt time.Time
}

func (b *Bundle) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, fmt.Errorf("failed to encode model bundle: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode model bundle: %w", err)
	}
	return &b, nil
}

// SaveBundle writes the bundle as a single object. Both storage backends
// promote complete objects only, so a failed save never clobbers a prior
// model at the same location.
func SaveBundle(ctx context.Context, res *storage.Resolver, uri string, b *Bundle) error {
	data, err := b.Encode()
	if err != nil {
		return err
	}

	if err := res.Put(ctx, uri, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to persist model to %s: %w", uri, err)
	}

	slog.Info("model persisted", "location", uri, "model", b.Model.Kind(), "bytes", len(data))
	return nil
}

func LoadBundle(ctx context.Context, res *storage.Resolver, uri string) (*Bundle, error) {
	rc, err := res.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to load model from %s: %w", uri, err)
	}
	defer rc.Close()

	b, err := DecodeBundle(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to load model from %s: %w", uri, err)
	}

	slog.Info("model loaded", "location", uri, "model", b.Model.Kind())
	return b, nil
}
