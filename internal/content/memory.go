package content

import (
	"context"
	"sync"

	derrors "redink/pkg/domain-errors"
)

// InMemoryStore keeps file bytes in a map. It backs the zero-dependency dev
// mode and the tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{files: make(map[string][]byte)}
}

func (s *InMemoryStore) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.files[key] = buf
	return nil
}

func (s *InMemoryStore) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[key]
	if !ok {
		return nil, derrors.Newf(derrors.CodeNotFound, "file %s not found", key)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (s *InMemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[key]; !ok {
		return derrors.Newf(derrors.CodeNotFound, "file %s not found", key)
	}
	delete(s.files, key)
	return nil
}

func (s *InMemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.files))
	for k := range s.files {
		keys = append(keys, k)
	}
	return keys, nil
}
