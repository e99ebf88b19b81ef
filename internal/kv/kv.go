// Package kv provides the string-keyed persistent store the offline queue
// sits on. Values are ordered lists of strings; any mutation is a full
// read-modify-write of the list under its key.
package kv

import "context"

// Store defines the persistence contract for the queue.
type Store interface {
	// GetStringList returns the list stored under key, in insertion order.
	// A missing key yields an empty list, not an error.
	GetStringList(ctx context.Context, key string) ([]string, error)

	// PutStringList replaces the list stored under key.
	PutStringList(ctx context.Context, key string, values []string) error

	// DeleteKey removes the key and its list entirely.
	DeleteKey(ctx context.Context, key string) error

	// Close releases the underlying store handle.
	Close() error
}
