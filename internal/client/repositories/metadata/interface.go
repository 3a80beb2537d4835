// Package metadata stores the client profile (sealed signing key, default
// mint and account) as key/value pairs in the local SQLite database.
package metadata

import (
	"context"
	"time"
)

// Entry is one stored value.
type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete reports whether key was present.
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}
