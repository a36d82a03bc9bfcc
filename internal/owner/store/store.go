// Package store persists anonymous owners. Implementations return
// CodeNotFound domain errors for misses and CodeStorage for persistence
// failures.
package store

import (
	"context"

	"github.com/google/uuid"

	"redink/internal/owner/models"
)

type Store interface {
	Create(ctx context.Context, owner *models.Owner) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Owner, error)
}
