// Package service resolves public share tokens into read-only document
// bundles. Anyone holding a token may view the document and its
// annotations; tokens are unguessable uuids minted at ingest.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	annmodels "redink/internal/annotation/models"
	docmodels "redink/internal/document/models"
	"redink/internal/platform/metrics"
	derrors "redink/pkg/domain-errors"
)

// Bundle is everything a share viewer needs in one response.
type Bundle struct {
	Document    *docmodels.Document     `json:"document"`
	Annotations []*annmodels.Annotation `json:"annotations"`
}

// DocumentResolver is the slice of the document registry this service needs.
type DocumentResolver interface {
	FindByShareToken(ctx context.Context, token string) (*docmodels.Document, error)
}

// AnnotationLister is the slice of the annotation store this service needs.
type AnnotationLister interface {
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*annmodels.Annotation, error)
}

// BundleCache holds resolved bundles keyed by share token. A nil cache is
// a valid no-op.
type BundleCache interface {
	Get(ctx context.Context, token string) (*Bundle, bool)
	Set(ctx context.Context, token string, bundle *Bundle)
	Invalidate(ctx context.Context, token string)
}

// Service resolves share tokens.
type Service struct {
	documents   DocumentResolver
	annotations AnnotationLister
	cache       BundleCache
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithCache(cache BundleCache) Option {
	return func(s *Service) { s.cache = cache }
}

func New(documents DocumentResolver, annotations AnnotationLister, opts ...Option) *Service {
	s := &Service{documents: documents, annotations: annotations, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the bundle for a share token. Unknown tokens are lookup
// misses; the response never reveals whether a token ever existed.
func (s *Service) Resolve(ctx context.Context, token string) (*Bundle, error) {
	if token == "" {
		return nil, derrors.New(derrors.CodeNotFound, "share link not found")
	}

	if s.cache != nil {
		if bundle, ok := s.cache.Get(ctx, token); ok {
			s.metrics.RecordShareResolve("hit")
			return bundle, nil
		}
	}

	doc, err := s.documents.FindByShareToken(ctx, token)
	if err != nil {
		if derrors.HasCode(err, derrors.CodeNotFound) {
			s.metrics.RecordShareResolve("not_found")
			return nil, derrors.New(derrors.CodeNotFound, "share link not found")
		}
		return nil, err
	}

	anns, err := s.annotations.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if anns == nil {
		anns = []*annmodels.Annotation{}
	}

	bundle := &Bundle{Document: doc, Annotations: anns}
	if s.cache != nil {
		s.cache.Set(ctx, token, bundle)
	}
	s.metrics.RecordShareResolve("miss")
	s.logger.DebugContext(ctx, "share token resolved",
		"document_id", doc.ID, "annotations", len(anns))
	return bundle, nil
}
