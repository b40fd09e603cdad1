package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"winequality-pipeline/internal/storage"
)

// Load fetches a delimited table from a storage location and checks it
// against the schema. Training and validation loads require the label
// column; pure inference input may omit it.
func Load(ctx context.Context, res *storage.Resolver, uri string, schema Schema, requireLabel bool) (*Table, error) {
	rc, err := res.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset from %s: %w", uri, err)
	}
	defer rc.Close()

	table, err := ParseCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset from %s: %w", uri, err)
	}

	required := schema.Features
	if requireLabel {
		required = append(append([]string{}, schema.Features...), schema.Label)
	}
	if err := table.Require(required...); err != nil {
		return nil, fmt.Errorf("dataset %s does not match schema: %w", uri, err)
	}

	slog.Info("dataset loaded", "location", uri, "rows", table.NumRows(), "columns", len(table.Columns))

	return table, nil
}
