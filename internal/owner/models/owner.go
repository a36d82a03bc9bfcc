package models

import (
	"time"

	"github.com/google/uuid"
)

// Owner is an anonymous identity documents may be bound to. It is not a
// user account: there are no credentials and nothing to authenticate. The
// id doubles as the bearer token clients present in X-User-ID.
type Owner struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
