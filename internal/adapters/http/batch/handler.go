package batch

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appats "3tcapital/sriats/internal/application/ats"
	"3tcapital/sriats/internal/core/batch"
	"3tcapital/sriats/internal/core/comprobante"
	httperrors "3tcapital/sriats/internal/infrastructure/http"
	"3tcapital/sriats/internal/infrastructure/logger"
)

// Handler serves the documents persisted for an upload batch.
type Handler struct {
	service *appats.Service
	log     *slog.Logger
}

// NewHandler creates a batch handler.
func NewHandler(service *appats.Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// DocumentsResponse lists the normalized documents of a batch in upload order.
type DocumentsResponse struct {
	BatchID   string                 `json:"batchId"`
	Total     int                    `json:"total"`
	Documents []comprobante.Document `json:"documents"`
}

// Documents handles GET /api/v1/batches/{batchID}/documents requests.
func (h *Handler) Documents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.log)

	batchID, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, batch.CodeInvalidBatchID, "El identificador de lote no es válido", nil, log)
		return
	}

	docs, err := h.service.BatchDocuments(r.Context(), batchID)
	switch {
	case errors.Is(err, batch.ErrBatchNotFound):
		httperrors.WriteError(w, http.StatusNotFound, batch.CodeBatchNotFound, "Lote no encontrado", nil, log)
		return
	case errors.Is(err, batch.ErrPersistenceDisabled):
		httperrors.WriteError(w, http.StatusServiceUnavailable, batch.CodePersistenceDisabled, "La persistencia de lotes no está habilitada", nil, log)
		return
	case err != nil:
		log.Error("Failed to load batch documents", "error", err, "batch_id", batchID)
		httperrors.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Error interno del servidor", nil, log)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, DocumentsResponse{
		BatchID:   batchID.String(),
		Total:     len(docs),
		Documents: docs,
	}, log)
}
