package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	docmodels "redink/internal/document/models"
	"redink/internal/owner/models"
	"redink/internal/owner/store"
	derrors "redink/pkg/domain-errors"
)

// DocumentLister is the slice of the document registry this service needs.
type DocumentLister interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*docmodels.Document, error)
}

// Service manages anonymous owner lifecycle and per-owner document listing.
type Service struct {
	owners    store.Store
	documents DocumentLister
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(owners store.Store, documents DocumentLister, opts ...Option) *Service {
	s := &Service{owners: owners, documents: documents, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create mints a fresh anonymous owner. There is nothing to validate: an
// owner is just an id and a timestamp.
func (s *Service) Create(ctx context.Context) (*models.Owner, error) {
	owner := &models.Owner{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	if err := s.owners.Create(ctx, owner); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "anonymous user created", "user_id", owner.ID)
	return owner, nil
}

// Get looks up an owner by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Owner, error) {
	return s.owners.FindByID(ctx, id)
}

// Exists reports whether an owner id names a known owner. A lookup miss is
// a clean false; only storage failures surface as errors.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.owners.FindByID(ctx, id); err != nil {
		if derrors.HasCode(err, derrors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Documents lists an owner's documents, most recently updated first. The
// owner must exist; listing for an unknown owner is a lookup miss, not an
// empty list.
func (s *Service) Documents(ctx context.Context, id uuid.UUID) ([]*docmodels.Document, error) {
	if _, err := s.owners.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.documents.ListByOwner(ctx, id)
}
