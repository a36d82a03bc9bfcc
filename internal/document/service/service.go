package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"redink/internal/content"
	"redink/internal/convert"
	"redink/internal/document/models"
	"redink/internal/document/store"
	"redink/internal/pdfinfo"
	"redink/internal/platform/metrics"
	derrors "redink/pkg/domain-errors"
)

// OwnerChecker reports whether an owner id names a known owner. Ownership
// is advisory: a claimed owner that does not exist simply yields an
// ownerless document, never an error.
type OwnerChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// AnnotationPurger removes all annotations attached to a document. The
// Postgres stores cascade this through the schema, so purging there is a
// no-op; the in-memory stores need it done explicitly.
type AnnotationPurger interface {
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

// ShareInvalidator drops a cached share bundle for a token.
type ShareInvalidator interface {
	Invalidate(ctx context.Context, shareToken string)
}

// Service owns the document lifecycle: ingestion, retrieval, and deletion.
type Service struct {
	documents   store.Store
	files       content.Store
	converter   convert.Converter
	owners      OwnerChecker
	annotations AnnotationPurger
	logger      *slog.Logger
	metrics     *metrics.Metrics
	invalidator ShareInvalidator
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithOwnerChecker(owners OwnerChecker) Option {
	return func(s *Service) { s.owners = owners }
}

func WithAnnotationPurger(p AnnotationPurger) Option {
	return func(s *Service) { s.annotations = p }
}

func WithShareInvalidator(inv ShareInvalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

func New(documents store.Store, files content.Store, converter convert.Converter, opts ...Option) *Service {
	s := &Service{
		documents: documents,
		files:     files,
		converter: converter,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest accepts an uploaded file and produces a catalog entry backed by a
// canonical-format file in the content store. The record is created last:
// any failure along the way removes every artifact already written, so no
// document is ever visible without its file.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte, claimedOwner *uuid.UUID) (*models.Document, error) {
	format, err := models.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, derrors.New(derrors.CodeValidation, "uploaded file is empty")
	}

	ownerID := s.resolveOwner(ctx, claimedOwner)

	canonical := data
	if format.Convertible() {
		start := time.Now()
		canonical, err = s.converter.Convert(ctx, data, format)
		s.metrics.ObserveConversion(time.Since(start), err)
		if err != nil {
			return nil, err
		}
	}

	key := uuid.NewString() + ".pdf"
	if err := s.files.Write(ctx, key, canonical); err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		OriginalFilename: filename,
		StoredFilename:   key,
		OriginalFormat:   format,
		PageCount:        s.pageCount(ctx, canonical),
		ShareToken:       uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if rmErr := s.files.Remove(ctx, key); rmErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove file after aborted ingest",
				"key", key, "error", rmErr)
		}
		return nil, err
	}

	s.metrics.RecordUpload(string(format))
	s.logger.InfoContext(ctx, "document ingested",
		"document_id", doc.ID, "format", format, "pages", doc.PageCount, "owned", doc.Owned())
	return doc, nil
}

// Get returns the catalog entry for a document.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return s.documents.FindByID(ctx, id)
}

// File returns the canonical file bytes and the filename to offer clients.
func (s *Service) File(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.files.Read(ctx, doc.StoredFilename)
	if err != nil {
		return nil, "", err
	}
	return data, doc.DownloadFilename(), nil
}

// ListByOwner returns an owner's documents, most recently updated first.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Document, error) {
	return s.documents.ListByOwner(ctx, ownerID)
}

// Delete removes a document, its file, and its annotations. An owned
// document may only be deleted by its owner; requests without an identity
// pass the check, matching the advisory ownership model. A file already
// missing from the content store does not block deletion of the record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, requester *uuid.UUID) error {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.Owned() && requester != nil && *requester != *doc.OwnerID {
		return derrors.New(derrors.CodeForbidden, "you do not own this document")
	}

	err = s.documents.Delete(ctx, id, func() error {
		if err := s.files.Remove(ctx, doc.StoredFilename); err != nil {
			if derrors.HasCode(err, derrors.CodeNotFound) {
				s.logger.WarnContext(ctx, "stored file already missing at delete",
					"document_id", id, "key", doc.StoredFilename)
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.annotations != nil {
		if err := s.annotations.DeleteByDocument(ctx, id); err != nil {
			s.logger.ErrorContext(ctx, "failed to purge annotations",
				"document_id", id, "error", err)
		}
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, doc.ShareToken)
	}

	s.metrics.RecordDelete()
	s.logger.InfoContext(ctx, "document deleted", "document_id", id)
	return nil
}

func (s *Service) resolveOwner(ctx context.Context, claimed *uuid.UUID) *uuid.UUID {
	if claimed == nil || s.owners == nil {
		return nil
	}
	ok, err := s.owners.Exists(ctx, *claimed)
	if err != nil {
		s.logger.WarnContext(ctx, "owner lookup failed, treating upload as anonymous",
			"owner_id", *claimed, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	id := *claimed
	return &id
}

func (s *Service) pageCount(ctx context.Context, data []byte) int {
	n, err := pdfinfo.PageCount(data)
	if err != nil {
		s.logger.WarnContext(ctx, "could not determine page count", "error", err)
		return 0
	}
	return n
}
