// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"taskboard/internal/storage"
)

// FakeStorage is an in-memory implementation of storage.Storage for testing.
type FakeStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
	sets  map[string]int // key -> successful SetItem calls

	// Error injection for testing
	GetItemErr    error
	SetItemErr    error
	RemoveItemErr error
}

// NewFakeStorage creates an empty FakeStorage.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		items: make(map[string][]byte),
		sets:  make(map[string]int),
	}
}

// Put stores a raw value without counting it as a write.
func (f *FakeStorage) Put(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = append([]byte(nil), value...)
}

// Raw returns the stored value for key.
func (f *FakeStorage) Raw(key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.items[key]
	return append([]byte(nil), v...), ok
}

// Writes returns how many SetItem calls succeeded for key.
func (f *FakeStorage) Writes(key string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sets[key]
}

// SetErrors replaces the injected errors under the lock, so tests can flip
// them while a background writer is running.
func (f *FakeStorage) SetErrors(get, set, remove error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetItemErr = get
	f.SetItemErr = set
	f.RemoveItemErr = remove
}

// GetItem implements storage.Storage.
func (f *FakeStorage) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.GetItemErr != nil {
		return nil, false, f.GetItemErr
	}
	v, ok := f.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// SetItem implements storage.Storage.
func (f *FakeStorage) SetItem(ctx context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetItemErr != nil {
		return f.SetItemErr
	}
	f.items[key] = append([]byte(nil), value...)
	f.sets[key]++
	return nil
}

// RemoveItem implements storage.Storage.
func (f *FakeStorage) RemoveItem(ctx context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RemoveItemErr != nil {
		return f.RemoveItemErr
	}
	delete(f.items, key)
	return nil
}
