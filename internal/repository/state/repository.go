package state

import (
	"context"
	"time"
)

// Entry is one persisted payload under a storage key.
type Entry struct {
	Key       string
	Payload   []byte
	UpdatedAt time.Time
}

// Repository persists small JSON payloads for the session-scoped stores.
// Load returns domain.ErrNotFound when the key was never saved.
type Repository interface {
	Load(ctx context.Context, key string) (*Entry, error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}
