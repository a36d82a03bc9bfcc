package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"redink/internal/annotation/models"
	derrors "redink/pkg/domain-errors"
)

// Postgres persists annotations in the annotations table. The unique index
// on (document_id, page_number) plus ON CONFLICT DO UPDATE makes the upsert
// one atomic statement: concurrent saves to the same page serialize in the
// database, and id/created_at of the winning row are never rewritten.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Upsert(ctx context.Context, documentID uuid.UUID, page int, data json.RawMessage, now time.Time) (*models.Annotation, error) {
	query := `
		INSERT INTO annotations (id, document_id, page_number, annotation_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (document_id, page_number) DO UPDATE SET
			annotation_data = EXCLUDED.annotation_data,
			updated_at = EXCLUDED.updated_at
		RETURNING id, document_id, page_number, annotation_data, created_at, updated_at
	`
	var ann models.Annotation
	err := s.db.QueryRowContext(ctx, query,
		uuid.New(), documentID, page, []byte(data), now,
	).Scan(&ann.ID, &ann.DocumentID, &ann.PageNumber, (*[]byte)(&ann.Data), &ann.CreatedAt, &ann.UpdatedAt)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "upsert annotation")
	}
	return &ann, nil
}

func (s *Postgres) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*models.Annotation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, page_number, annotation_data, created_at, updated_at
		FROM annotations
		WHERE document_id = $1
		ORDER BY page_number ASC`,
		documentID)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "list annotations")
	}
	defer rows.Close()

	var anns []*models.Annotation
	for rows.Next() {
		var ann models.Annotation
		err := rows.Scan(&ann.ID, &ann.DocumentID, &ann.PageNumber,
			(*[]byte)(&ann.Data), &ann.CreatedAt, &ann.UpdatedAt)
		if err != nil {
			return nil, derrors.Wrap(err, derrors.CodeStorage, "scan annotation")
		}
		anns = append(anns, &ann)
	}
	if err := rows.Err(); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "list annotations")
	}
	return anns, nil
}

func (s *Postgres) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM annotations WHERE document_id = $1`, documentID)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeStorage, "delete annotations")
	}
	return nil
}
