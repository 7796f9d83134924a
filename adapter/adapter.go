package adapter

import (
	"context"
)

// Adapter is the shared key-value store holding lock records.
// Every method must be atomic for a single key. Values are plain epoch seconds.
type Adapter interface {
	// Store value only if key does not exist yet. Reports whether the value was stored.
	SetNX(ctx context.Context, key string, value int64) (bool, error)

	// Get the value of key. Returns ErrNotFound if key does not exist.
	Get(ctx context.Context, key string) (int64, error)

	// Atomically store value and return the value held right before.
	// Returns ErrNotFound (with the new value stored) if key did not exist.
	GetSet(ctx context.Context, key string, value int64) (int64, error)

	// Delete key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
