package repo

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrCorruptHistory is returned when a stored value is not a JSON list of results.
var ErrCorruptHistory = errors.New("corrupt history value")

// KV is the persistence port: an opaque JSON key-value store.
// Swap in any adapter (memory, postgres, sqlite).
type KV interface {
	// Get returns nil, nil if the key has never been written.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
}

// Key is the storage key for an endpoint's history.
func Key(endpointName string) string {
	return "status:" + endpointName
}
