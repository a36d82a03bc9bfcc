package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	annstore "redink/internal/annotation/store"
	docmodels "redink/internal/document/models"
	docstore "redink/internal/document/store"
	"redink/internal/share/service"
)

func newShareRouter(t *testing.T) (chi.Router, *docstore.InMemory, *annstore.InMemory) {
	t.Helper()

	docs := docstore.NewInMemory()
	anns := annstore.NewInMemory()
	svc := service.New(docs, anns, service.WithLogger(slog.New(slog.DiscardHandler)))
	h := New(svc, slog.New(slog.DiscardHandler))

	router := chi.NewRouter()
	h.Register(router)
	return router, docs, anns
}

func TestResolveShareLink(t *testing.T) {
	router, docs, anns := newShareRouter(t)

	doc := &docmodels.Document{
		ID:               uuid.New(),
		OriginalFilename: "worksheet.pdf",
		StoredFilename:   uuid.NewString() + ".pdf",
		OriginalFormat:   docmodels.FormatPDF,
		ShareToken:       uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := docs.Create(context.Background(), doc); err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}
	if _, err := anns.Upsert(context.Background(), doc.ID, 0, json.RawMessage(`{"ink":[]}`), time.Now().UTC()); err != nil {
		t.Fatalf("failed to seed annotation: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/share/"+doc.ShareToken, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 resolving share link, got %d", rec.Code)
	}

	var bundle service.Bundle
	if err := json.NewDecoder(rec.Body).Decode(&bundle); err != nil {
		t.Fatalf("failed to decode bundle: %v", err)
	}
	if bundle.Document == nil || bundle.Document.ID != doc.ID {
		t.Fatalf("expected document in bundle")
	}
	if len(bundle.Annotations) != 1 {
		t.Fatalf("expected 1 annotation in bundle, got %d", len(bundle.Annotations))
	}
}

func TestResolveUnknownToken(t *testing.T) {
	router, _, _ := newShareRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/share/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown token, got %d", rec.Code)
	}
}
