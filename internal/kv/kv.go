// Package kv defines the asynchronous key-value primitive the message
// store persists into, plus the available backends. The contract is
// deliberately small: string keys, opaque byte values, no transactions
// and no multi-key atomicity.
package kv

import "context"

// Store is the persistence primitive. All methods take a context because
// every implementation may block on I/O; none of them retry.
type Store interface {
	// Get returns the value for key, or ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key, replacing any previous value. The swap
	// of old value for new must be atomic per key: a failed Set leaves
	// the previous value intact, never a truncated one.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// MultiRemove deletes each key in turn. It is a convenience, not a
	// transaction: a failure part-way leaves earlier keys removed.
	MultiRemove(ctx context.Context, keys []string) error

	// Keys returns all keys starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases the backend.
	Close() error
}
