package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	docmodels "redink/internal/document/models"
	"redink/internal/http/shared"
	"redink/internal/owner/models"
	derrors "redink/pkg/domain-errors"
)

// Service is the owner operations contract the handler depends on.
type Service interface {
	Create(ctx context.Context) (*models.Owner, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Owner, error)
	Documents(ctx context.Context, id uuid.UUID) ([]*docmodels.Document, error)
}

// Handler exposes the anonymous user endpoints.
type Handler struct {
	owners Service
	logger *slog.Logger
}

func New(owners Service, logger *slog.Logger) *Handler {
	return &Handler{owners: owners, logger: logger}
}

// Register mounts the user routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/users", h.handleCreate)
	r.Get("/users/{userID}", h.handleGet)
	r.Get("/users/{userID}/documents", h.handleDocuments)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owners.Create(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create user", "error", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, owner)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeNotFound, "user not found"))
		return
	}
	owner, err := h.owners.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, owner)
}

func (h *Handler) handleDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeNotFound, "user not found"))
		return
	}
	docs, err := h.owners.Documents(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if docs == nil {
		docs = []*docmodels.Document{}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}
