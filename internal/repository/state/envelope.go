package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sisera-crm/internal/domain"
)

// envelope is the persisted shape of every entry: the store's partial state
// plus a schema version.
type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// SaveJSON stores v under key wrapped in the versioned envelope.
func SaveJSON(ctx context.Context, repo Repository, key string, v any) error {
	inner, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	payload, err := json.Marshal(envelope{State: inner})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return repo.Save(ctx, key, payload)
}

// LoadJSON decodes the entry under key into v. It reports false when nothing
// was saved yet.
func LoadJSON(ctx context.Context, repo Repository, key string, v any) (bool, error) {
	e, err := repo.Load(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var env envelope
	if err := json.Unmarshal(e.Payload, &env); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	if len(env.State) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(env.State, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
