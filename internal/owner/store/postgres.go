package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"redink/internal/owner/models"
	derrors "redink/pkg/domain-errors"
)

// Postgres persists owners in the anonymous_users table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, owner *models.Owner) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO anonymous_users (id, created_at) VALUES ($1, $2)`,
		owner.ID, owner.CreatedAt,
	)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeStorage, "create user")
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Owner, error) {
	var owner models.Owner
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM anonymous_users WHERE id = $1`, id,
	).Scan(&owner.ID, &owner.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, derrors.New(derrors.CodeNotFound, "user not found")
		}
		return nil, derrors.Wrap(err, derrors.CodeStorage, "find user")
	}
	return &owner, nil
}
