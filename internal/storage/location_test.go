package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		uri  string
		want Location
	}{
		{"s3://winequality/TrainingDataset.csv", Location{Scheme: "s3", Bucket: "winequality", Key: "TrainingDataset.csv"}},
		{"s3://winequality/models/best.bin", Location{Scheme: "s3", Bucket: "winequality", Key: "models/best.bin"}},
		{"file:///tmp/data.csv", Location{Scheme: "file", Key: "/tmp/data.csv"}},
		{"/tmp/data.csv", Location{Scheme: "file", Key: "/tmp/data.csv"}},
		{"https://example.com/wine.csv", Location{Scheme: "https", Key: "https://example.com/wine.csv"}},
	}

	for _, tt := range tests {
		loc, err := ParseLocation(tt.uri)
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.want, loc, tt.uri)
	}
}

func TestParseLocationInvalid(t *testing.T) {
	for _, uri := range []string{"s3://bucket-only", "ftp://host/file"} {
		_, err := ParseLocation(uri)
		require.Error(t, err, uri)
		assert.True(t, errors.Is(err, ErrIO), uri)
	}
}

func TestResolverFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	uri := "file://" + filepath.Join(dir, "sub", "table.csv")

	resolver := NewResolver(S3ClientConfig{})

	err := resolver.Put(context.Background(), uri, strings.NewReader("a;b\n1;2\n"))
	require.NoError(t, err)

	rc, err := resolver.Open(context.Background(), uri)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a;b\n1;2\n", string(data))

	raw, err := os.ReadFile(filepath.Join(dir, "sub", "table.csv"))
	require.NoError(t, err)
	assert.Equal(t, data, raw)
}

func TestResolverHTTPReadOnly(t *testing.T) {
	resolver := NewResolver(S3ClientConfig{})

	err := resolver.Put(context.Background(), "https://example.com/wine.csv", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
}
