package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"redink/internal/document/models"
	derrors "redink/pkg/domain-errors"
)

const documentColumns = `id, user_id, original_filename, stored_filename, original_type, page_count, share_hash, created_at, updated_at`

// Postgres persists documents in the documents table. Annotation rows hang
// off documents with ON DELETE CASCADE, so deleting the document row is the
// single transactional boundary for the whole aggregate.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, doc *models.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.ID, ownerValue(doc.OwnerID), doc.OriginalFilename, doc.StoredFilename,
		string(doc.OriginalFormat), doc.PageCount, doc.ShareToken, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeStorage, "create document")
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row, "document not found")
}

func (s *Postgres) FindByShareToken(ctx context.Context, token string) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE share_hash = $1`, token)
	return scanDocument(row, "shared document not found")
}

func (s *Postgres) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = $1 ORDER BY updated_at DESC`,
		ownerID)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "list documents")
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows, "document not found")
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "list documents")
	}
	return docs, nil
}

func (s *Postgres) StoredFilenames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT stored_filename FROM documents`)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "list stored filenames")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, derrors.Wrap(err, derrors.CodeStorage, "scan stored filename")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "list stored filenames")
	}
	return names, nil
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID, removeFile func() error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeStorage, "begin delete")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeStorage, "delete document")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return derrors.Wrap(err, derrors.CodeStorage, "delete document")
	}
	if n == 0 {
		return derrors.New(derrors.CodeNotFound, "document not found")
	}

	// The file removal runs before commit: if it fails the transaction rolls
	// back and the record survives. The narrow window in which the file is
	// gone but the commit is pending is the one the orphan sweep covers.
	if removeFile != nil {
		if err := removeFile(); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return derrors.Wrap(err, derrors.CodeStorage, "commit delete")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner, missingMsg string) (*models.Document, error) {
	var (
		doc    models.Document
		owner  uuid.NullUUID
		format string
	)
	err := row.Scan(&doc.ID, &owner, &doc.OriginalFilename, &doc.StoredFilename,
		&format, &doc.PageCount, &doc.ShareToken, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, derrors.New(derrors.CodeNotFound, missingMsg)
		}
		return nil, derrors.Wrap(err, derrors.CodeStorage, "scan document")
	}
	if owner.Valid {
		doc.OwnerID = &owner.UUID
	}
	doc.OriginalFormat = models.Format(format)
	return &doc, nil
}

func ownerValue(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
