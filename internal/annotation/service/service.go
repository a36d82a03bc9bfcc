package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"redink/internal/annotation/models"
	"redink/internal/annotation/store"
	docmodels "redink/internal/document/models"
	"redink/internal/platform/metrics"
	derrors "redink/pkg/domain-errors"
)

// DocumentFinder is the slice of the document registry this service needs:
// annotations are only ever attached to documents that exist.
type DocumentFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*docmodels.Document, error)
}

// ShareInvalidator drops a cached share bundle after its annotations change.
type ShareInvalidator interface {
	Invalidate(ctx context.Context, shareToken string)
}

// Service owns annotation reads and writes for documents.
type Service struct {
	annotations store.Store
	documents   DocumentFinder
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

func WithShareInvalidator(inv ShareInvalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

func New(annotations store.Store, documents DocumentFinder, opts ...Option) *Service {
	s := &Service{annotations: annotations, documents: documents, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save upserts the annotation for one page of a document. The document must
// exist; saving never creates documents implicitly. The payload is opaque
// and stored verbatim.
func (s *Service) Save(ctx context.Context, documentID uuid.UUID, page int, data json.RawMessage) (*models.Annotation, error) {
	if page < 0 {
		return nil, derrors.New(derrors.CodeValidation, "page_number must be non-negative")
	}
	if len(data) == 0 || !json.Valid(data) {
		return nil, derrors.New(derrors.CodeValidation, "annotation_data must be valid JSON")
	}

	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	ann, err := s.annotations.Upsert(ctx, documentID, page, data, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAnnotationSaved()
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, doc.ShareToken)
	}
	s.logger.DebugContext(ctx, "annotation saved",
		"document_id", documentID, "page", page, "annotation_id", ann.ID)
	return ann, nil
}

// List returns a document's annotations ordered by ascending page number.
func (s *Service) List(ctx context.Context, documentID uuid.UUID) ([]*models.Annotation, error) {
	if _, err := s.documents.FindByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.annotations.ListByDocument(ctx, documentID)
}
