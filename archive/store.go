// Package archive keeps consolidated bids and workflow checkpoints as JSON
// documents in a hierarchical key space backed by pluggable storage.
package archive

import (
	"context"
	"errors"
)

// Sentinel errors for store operations.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrLoadFailed  = errors.New("load failed")
	ErrSaveFailed  = errors.New("save failed")
)

// Entry is one document in the key space. Keys are slash-separated relative
// paths.
type Entry struct {
	Key   string
	Value []byte
}

// Store translates between external storage and the key space.
// Implementations perform I/O on each call without caching.
type Store interface {
	// List returns all keys under prefix in sorted order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Load retrieves entries for the specified keys.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
