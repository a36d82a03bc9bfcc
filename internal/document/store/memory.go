package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"redink/internal/document/models"
	derrors "redink/pkg/domain-errors"
)

// InMemory keeps document records in maps for dev mode and tests.
type InMemory struct {
	mu      sync.RWMutex
	docs    map[uuid.UUID]models.Document
	byToken map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		docs:    make(map[uuid.UUID]models.Document),
		byToken: make(map[string]uuid.UUID),
	}
}

func (s *InMemory) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byToken[doc.ShareToken]; exists {
		return derrors.New(derrors.CodeStorage, "share token already in use")
	}
	s.docs[doc.ID] = *doc
	s.byToken[doc.ShareToken] = doc.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, derrors.New(derrors.CodeNotFound, "document not found")
	}
	return &doc, nil
}

func (s *InMemory) FindByShareToken(_ context.Context, token string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil, derrors.New(derrors.CodeNotFound, "shared document not found")
	}
	doc := s.docs[id]
	return &doc, nil
}

func (s *InMemory) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*models.Document
	for _, doc := range s.docs {
		if doc.OwnerID != nil && *doc.OwnerID == ownerID {
			d := doc
			docs = append(docs, &d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

func (s *InMemory) StoredFilenames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for _, doc := range s.docs {
		names = append(names, doc.StoredFilename)
	}
	return names, nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID, removeFile func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return derrors.New(derrors.CodeNotFound, "document not found")
	}
	if removeFile != nil {
		if err := removeFile(); err != nil {
			return err
		}
	}
	delete(s.docs, id)
	delete(s.byToken, doc.ShareToken)
	return nil
}
