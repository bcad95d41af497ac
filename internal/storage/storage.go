// Package storage defines the backend-agnostic key-value contract used to
// persist board state.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty or contain path separators.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage is a key-value blob store addressed by store name.
// The task store never imports a backend SDK directly; everything goes through
// this interface.
type Storage interface {
	// GetItem returns the value stored under key.
	// found is false (with a nil error) when nothing is stored there.
	GetItem(ctx context.Context, key string) (value []byte, found bool, err error)

	// SetItem replaces the value stored under key.
	SetItem(ctx context.Context, key string, value []byte) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// Watcher is implemented by backends that can report external changes to a key.
type Watcher interface {
	// Watch calls onChange each time the value under key changes outside this
	// process. It blocks until ctx is done or the watch fails.
	Watch(ctx context.Context, key string, onChange func()) error
}

// ValidateKey checks that key can be used by every backend.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
