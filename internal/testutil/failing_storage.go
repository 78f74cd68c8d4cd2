package testutil

import (
	"context"
	"sync"
)

// FailingStorage is an in-memory storage whose operations can be made to
// fail individually. It satisfies repository.StorageRepo structurally so
// this package does not import the repository package.
type FailingStorage struct {
	mu     sync.Mutex
	items  map[string]string
	GetErr error
	SetErr error
	DelErr error

	// NotFound is returned by GetItem for missing keys.
	NotFound error

	Sets    int
	Removes int
}

// NewFailingStorage creates a FailingStorage that reports missing keys with notFound.
func NewFailingStorage(notFound error) *FailingStorage {
	return &FailingStorage{items: make(map[string]string), NotFound: notFound}
}

// Put seeds a raw value without counting it as a write.
func (s *FailingStorage) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Raw returns the stored text for key.
func (s *FailingStorage) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *FailingStorage) GetItem(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return "", s.GetErr
	}
	v, ok := s.items[key]
	if !ok {
		return "", s.NotFound
	}
	return v, nil
}

func (s *FailingStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sets++
	if s.SetErr != nil {
		return s.SetErr
	}
	s.items[key] = value
	return nil
}

func (s *FailingStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Removes++
	if s.DelErr != nil {
		return s.DelErr
	}
	delete(s.items, key)
	return nil
}
