// Package content provides durable byte storage for uploaded and derived
// files. Files live in a single flat namespace addressed by generated
// storage keys; nothing here knows about documents or formats.
package content

import "context"

// Store is the content storage contract. Implementations must treat keys as
// opaque and must never partially write: a failed Write leaves no file
// behind under the key.
type Store interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	// Remove deletes the file for key. A missing file is CodeNotFound so
	// callers can decide whether absence is acceptable.
	Remove(ctx context.Context, key string) error
	// Keys lists every stored key, for the orphan sweep.
	Keys(ctx context.Context) ([]string, error)
}
