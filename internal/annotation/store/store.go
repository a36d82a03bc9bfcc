// Package store persists annotations keyed by (document, page). The upsert
// is a single conditional write at the storage layer, not read-then-write,
// so concurrent saves against the same page can never leave two live rows.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"redink/internal/annotation/models"
)

type Store interface {
	// Upsert inserts a new annotation for (documentID, page) or replaces the
	// payload of the existing one, preserving its id and creation time. The
	// returned annotation reflects the stored state.
	Upsert(ctx context.Context, documentID uuid.UUID, page int, data json.RawMessage, now time.Time) (*models.Annotation, error)
	// ListByDocument returns annotations ordered by ascending page number.
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*models.Annotation, error)
	// DeleteByDocument removes every annotation of a document. Deleting for
	// a document with no annotations is not an error.
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}
