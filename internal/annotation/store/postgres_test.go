package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	derrors "redink/pkg/domain-errors"
)

func newMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresUpsertReturnsStoredRow(t *testing.T) {
	s, mock := newMock(t)
	docID := uuid.New()
	existingID := uuid.New()
	created := time.Now().UTC().Add(-time.Hour)
	now := time.Now().UTC()
	payload := json.RawMessage(`{"strokes":[1,2]}`)

	// The database returns the surviving row: on conflict, the original id
	// and created_at, with the new payload and updated_at.
	mock.ExpectQuery(`INSERT INTO annotations .+ ON CONFLICT \(document_id, page_number\) DO UPDATE`).
		WithArgs(sqlmock.AnyArg(), docID, 3, []byte(payload), now).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "document_id", "page_number", "annotation_data", "created_at", "updated_at",
		}).AddRow(existingID, docID, 3, []byte(payload), created, now))

	ann, err := s.Upsert(context.Background(), docID, 3, payload, now)
	require.NoError(t, err)
	require.Equal(t, existingID, ann.ID)
	require.Equal(t, created, ann.CreatedAt)
	require.Equal(t, now, ann.UpdatedAt)
	require.JSONEq(t, string(payload), string(ann.Data))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListByDocument(t *testing.T) {
	s, mock := newMock(t)
	docID := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "document_id", "page_number", "annotation_data", "created_at", "updated_at",
	}).
		AddRow(uuid.New(), docID, 0, []byte(`{"p":0}`), now, now).
		AddRow(uuid.New(), docID, 4, []byte(`{"p":4}`), now, now)

	mock.ExpectQuery(`SELECT .+ FROM annotations .+ ORDER BY page_number ASC`).
		WithArgs(docID).
		WillReturnRows(rows)

	anns, err := s.ListByDocument(context.Background(), docID)
	require.NoError(t, err)
	require.Len(t, anns, 2)
	require.Equal(t, 0, anns[0].PageNumber)
	require.Equal(t, 4, anns[1].PageNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteByDocument(t *testing.T) {
	s, mock := newMock(t)
	docID := uuid.New()

	mock.ExpectExec(`DELETE FROM annotations WHERE document_id`).
		WithArgs(docID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.DeleteByDocument(context.Background(), docID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertStorageError(t *testing.T) {
	s, mock := newMock(t)
	docID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO annotations`).
		WillReturnError(context.DeadlineExceeded)

	_, err := s.Upsert(context.Background(), docID, 1, json.RawMessage(`{}`), now)
	require.Error(t, err)
	require.True(t, derrors.HasCode(err, derrors.CodeStorage))
}
