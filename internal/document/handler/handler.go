package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"redink/internal/document/models"
	"redink/internal/http/shared"
	"redink/internal/platform/middleware"
	derrors "redink/pkg/domain-errors"
)

// maxUploadBytes caps multipart uploads; large classroom scans fit well
// under this.
const maxUploadBytes = 50 << 20

// Service is the document operations contract the handler depends on.
type Service interface {
	Ingest(ctx context.Context, filename string, data []byte, owner *uuid.UUID) (*models.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Document, error)
	File(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	Delete(ctx context.Context, id uuid.UUID, requester *uuid.UUID) error
}

// Handler exposes the document endpoints.
type Handler struct {
	documents Service
	logger    *slog.Logger
}

func New(documents Service, logger *slog.Logger) *Handler {
	return &Handler{documents: documents, logger: logger}
}

// Register mounts the document routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/documents/upload", h.handleUpload)
	r.Get("/documents/{documentID}", h.handleGet)
	r.Get("/documents/{documentID}/file", h.handleFile)
	r.Delete("/documents/{documentID}", h.handleDelete)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		shared.WriteError(w, derrors.New(derrors.CodeValidation, "multipart field 'file' is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		shared.WriteError(w, derrors.Wrap(err, derrors.CodeValidation, "read upload"))
		return
	}

	doc, err := h.documents.Ingest(r.Context(), header.Filename, data, middleware.RequesterID(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "upload failed",
			"filename", header.Filename, "error", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	doc, err := h.documents.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	data, name, err := h.documents.File(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "streaming document interrupted",
			"document_id", id, "error", err)
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := documentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.documents.Delete(r.Context(), id, middleware.RequesterID(r.Context())); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func documentID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		return uuid.Nil, derrors.New(derrors.CodeNotFound, "document not found")
	}
	return id, nil
}
