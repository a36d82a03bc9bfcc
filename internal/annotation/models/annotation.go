package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Annotation is opaque per-page markup. The payload's schema belongs to the
// client; the store never looks inside it and preserves it verbatim.
//
// Invariant: at most one annotation exists per (document, page) pair. Saving
// to an occupied page replaces the payload in place, keeping the original id
// and creation time.
type Annotation struct {
	ID         uuid.UUID       `json:"id"`
	DocumentID uuid.UUID       `json:"document_id"`
	PageNumber int             `json:"page_number"`
	Data       json.RawMessage `json:"annotation_data"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
