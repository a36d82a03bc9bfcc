package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"redink/internal/annotation/models"
)

type pageKey struct {
	documentID uuid.UUID
	page       int
}

// InMemory keeps annotations in a map keyed by (document, page). The single
// mutex is the serialization point that makes the upsert conditional.
type InMemory struct {
	mu    sync.RWMutex
	pages map[pageKey]models.Annotation
}

func NewInMemory() *InMemory {
	return &InMemory{pages: make(map[pageKey]models.Annotation)}
}

func (s *InMemory) Upsert(_ context.Context, documentID uuid.UUID, page int, data json.RawMessage, now time.Time) (*models.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pageKey{documentID: documentID, page: page}
	buf := make(json.RawMessage, len(data))
	copy(buf, data)

	if existing, ok := s.pages[key]; ok {
		existing.Data = buf
		existing.UpdatedAt = now
		s.pages[key] = existing
		return &existing, nil
	}

	ann := models.Annotation{
		ID:         uuid.New(),
		DocumentID: documentID,
		PageNumber: page,
		Data:       buf,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.pages[key] = ann
	return &ann, nil
}

func (s *InMemory) ListByDocument(_ context.Context, documentID uuid.UUID) ([]*models.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var anns []*models.Annotation
	for key, ann := range s.pages {
		if key.documentID == documentID {
			a := ann
			anns = append(anns, &a)
		}
	}
	sort.Slice(anns, func(i, j int) bool {
		return anns[i].PageNumber < anns[j].PageNumber
	})
	return anns, nil
}

func (s *InMemory) DeleteByDocument(_ context.Context, documentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.pages {
		if key.documentID == documentID {
			delete(s.pages, key)
		}
	}
	return nil
}
