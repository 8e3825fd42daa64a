// Package kv provides named key-value buckets persisted in SQLite.
package kv

import "time"

// StoreOptions contains optional parameters for Store operations.
type StoreOptions struct {
	TTL time.Duration // Time-to-live; zero means no expiry
}

// Bucket is the interface for key-value storage operations.
// Values are stored as JSON.
type Bucket interface {
	// Name returns the bucket name.
	Name() string

	// Store saves a value with the given key.
	Store(key string, value any, opts *StoreOptions) error

	// Get retrieves a value by key as generic JSON data.
	// Returns nil if the key doesn't exist or has expired.
	Get(key string) (any, error)

	// Load decodes the value stored under key into dst.
	// Returns false if the key doesn't exist or has expired.
	Load(key string, dst any) (bool, error)

	// Exists returns true if the key exists and hasn't expired.
	Exists(key string) (bool, error)

	// Delete removes a key from the bucket.
	// Returns true if the key existed.
	Delete(key string) (bool, error)

	// Keys returns all non-expired keys in the bucket, sorted.
	Keys() ([]string, error)

	// Clear removes all keys from the bucket.
	Clear() error
}
