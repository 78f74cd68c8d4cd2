package repository

import "context"

// StorageRepo is persistent client storage: a flat map from key to text,
// the place the session credential survives between runs.
type StorageRepo interface {
	// GetItem returns the stored text for key, or ErrNotFound.
	GetItem(ctx context.Context, key string) (string, error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}
