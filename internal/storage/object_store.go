package storage

import (
	"context"
	"errors"
	"io"
)

// ErrIO marks any storage failure: unreachable endpoints, missing objects,
// failed reads or writes. Callers match it with errors.Is.
var ErrIO = errors.New("storage i/o failure")

// wrapIO tags err as a storage failure while keeping the cause inspectable.
func wrapIO(err error) error {
	return errors.Join(ErrIO, err)
}

type Object struct {
	Name string
	Size int64
}

// ObjectStore reads and writes objects under a single bucket. Writes are
// all-or-nothing: a failed Put must never leave a partial object visible
// under the target key.
type ObjectStore interface {
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	PutObject(ctx context.Context, key string, data io.Reader) error

	ListObjects(ctx context.Context, prefix string) ([]Object, error)

	DeleteObjects(ctx context.Context, prefix string) error
}
