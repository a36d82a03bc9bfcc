package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"redink/internal/http/shared"
	"redink/internal/share/service"
)

// Service is the share resolution contract the handler depends on.
type Service interface {
	Resolve(ctx context.Context, token string) (*service.Bundle, error)
}

// Handler exposes the public share endpoint.
type Handler struct {
	shares Service
	logger *slog.Logger
}

func New(shares Service, logger *slog.Logger) *Handler {
	return &Handler{shares: shares, logger: logger}
}

// Register mounts the share route.
func (h *Handler) Register(r chi.Router) {
	r.Get("/share/{token}", h.handleResolve)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.shares.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, bundle)
}
