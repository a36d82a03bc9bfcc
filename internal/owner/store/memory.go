package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"redink/internal/owner/models"
	derrors "redink/pkg/domain-errors"
)

// InMemory keeps owners in a map for dev mode and tests.
type InMemory struct {
	mu     sync.RWMutex
	owners map[uuid.UUID]models.Owner
}

func NewInMemory() *InMemory {
	return &InMemory{owners: make(map[uuid.UUID]models.Owner)}
}

func (s *InMemory) Create(_ context.Context, owner *models.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[owner.ID] = *owner
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.owners[id]
	if !ok {
		return nil, derrors.New(derrors.CodeNotFound, "user not found")
	}
	return &owner, nil
}
