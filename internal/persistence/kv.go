// Package persistence provides the key-value primitive the directory store is
// built on, with Redis, SQL and in-memory backends.
//
// The primitive offers independent single-key operations only. There are no
// transactions, compare-and-swap or locks; callers that keep derived keys in
// sync must tolerate lost updates under concurrency.
package persistence

import "context"

// KeyValue is an opaque string-valued key-value service.
type KeyValue interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put creates or replaces the value for key.
	Put(ctx context.Context, key, value string) error
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	// Ping checks backend reachability.
	Ping(ctx context.Context) error
}

func namespacedKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}
