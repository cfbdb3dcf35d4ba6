// Package store persists framework state across application restarts:
// cached pages, saved scroll positions, and arbitrary application
// state keyed by string. The in-memory store is the default; the
// SQLite store survives restarts.
package store

import (
	"context"
	"time"

	"github.com/lumen-dev/lumen/internal/errors"
)

// Store is the persistence interface for framework state.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save persists data under key. An existing key is overwritten.
	// A zero expiresAt means the entry never expires.
	Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error

	// Load retrieves the data stored under key. Returns a
	// CodeStoreKeyMissing error when the key is absent or expired.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the live (non-expired) keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

// errClosed reports an operation on a closed store.
func errClosed() error {
	return errors.New(errors.CodeStoreUnavailable)
}

// errMissing reports an absent or expired key.
func errMissing(key string) error {
	return errors.New(errors.CodeStoreKeyMissing).WithPath(key)
}

// IsMissing reports whether err means the key was absent or expired.
func IsMissing(err error) bool {
	return errors.Is(err, errors.CodeStoreKeyMissing)
}
