package share

import (
	"context"
	"errors"
)

// ErrNotFound indicates a key is missing or its entry has expired.
var ErrNotFound = errors.New("shared dataset not found")

// ErrShareFailed indicates that neither the remote nor the local store accepted a dataset.
var ErrShareFailed = errors.New("could not share dataset")

// Store is a key-value storage port for share payloads.
type Store interface {
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Get returns the value under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
