// Package store persists the document registry. Implementations return
// CodeNotFound for misses and CodeStorage for persistence failures.
package store

import (
	"context"

	"github.com/google/uuid"

	"redink/internal/document/models"
)

type Store interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	FindByShareToken(ctx context.Context, token string) (*models.Document, error)
	// ListByOwner returns an owner's documents, most recently updated first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Document, error)
	// StoredFilenames returns every stored filename referenced by a
	// document, for the orphan sweep.
	StoredFilenames(ctx context.Context) ([]string, error)
	// Delete removes the document record as one logical unit with the
	// caller-supplied file removal: removeFile runs inside the delete (for
	// SQL stores, inside the transaction before commit) and an error from
	// it aborts the whole delete with the record intact.
	Delete(ctx context.Context, id uuid.UUID, removeFile func() error) error
}
