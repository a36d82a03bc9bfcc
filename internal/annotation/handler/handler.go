package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"redink/internal/annotation/models"
	"redink/internal/http/shared"
	derrors "redink/pkg/domain-errors"
)

// Service is the annotation operations contract the handler depends on.
type Service interface {
	Save(ctx context.Context, documentID uuid.UUID, page int, data json.RawMessage) (*models.Annotation, error)
	List(ctx context.Context, documentID uuid.UUID) ([]*models.Annotation, error)
}

// Handler exposes the per-document annotation endpoints.
type Handler struct {
	annotations Service
	logger      *slog.Logger
}

func New(annotations Service, logger *slog.Logger) *Handler {
	return &Handler{annotations: annotations, logger: logger}
}

// Register mounts the annotation routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/documents/{documentID}/annotations", h.handleList)
	r.Post("/documents/{documentID}/annotations", h.handleSave)
}

type saveRequest struct {
	PageNumber *int            `json:"page_number"`
	Data       json.RawMessage `json:"annotation_data"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, derrors.Wrap(err, derrors.CodeValidation, "invalid request body"))
		return
	}
	if req.PageNumber == nil {
		shared.WriteError(w, derrors.New(derrors.CodeValidation, "page_number is required"))
		return
	}

	ann, err := h.annotations.Save(r.Context(), id, *req.PageNumber, req.Data)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ann)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	anns, err := h.annotations.List(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if anns == nil {
		anns = []*models.Annotation{}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"annotations": anns})
}

func documentID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		return uuid.Nil, derrors.New(derrors.CodeNotFound, "document not found")
	}
	return id, nil
}
