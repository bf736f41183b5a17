package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/services/notebooks"
)

// NotebookHandler handles notebook CRUD requests
type NotebookHandler struct {
	service *notebooks.Service
	logger  arbor.ILogger
}

// NewNotebookHandler creates a new notebook handler
func NewNotebookHandler(service *notebooks.Service, logger arbor.ILogger) *NotebookHandler {
	return &NotebookHandler{
		service: service,
		logger:  logger,
	}
}

// ListHandler handles GET /api/notebooks
func (h *NotebookHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list notebooks")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

// CreateHandler handles POST /api/notebooks
func (h *NotebookHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req notebooks.CreateNotebookRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	nb, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create notebook")
		WriteServiceError(w, err)
		return
	}

	h.logger.Info().
		Str("notebook_id", nb.ID).
		Str("user_id", userID).
		Msg("Notebook created")

	WriteJSON(w, http.StatusCreated, nb)
}

// GetHandler handles GET /api/notebooks/{id}
func (h *NotebookHandler) GetHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	nb, err := h.service.Get(r.Context(), notebookID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, nb)
}

// DetailsHandler handles GET /api/notebooks/{id}/details
func (h *NotebookHandler) DetailsHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	details, err := h.service.GetDetails(r.Context(), notebookID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, details)
}

// UpdateHandler handles PUT /api/notebooks/{id}
func (h *NotebookHandler) UpdateHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req notebooks.UpdateNotebookRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	nb, err := h.service.Update(r.Context(), notebookID, userID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, nb)
}

// DeleteHandler handles DELETE /api/notebooks/{id}
func (h *NotebookHandler) DeleteHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), notebookID, userID); err != nil {
		h.logger.Error().Err(err).Str("notebook_id", notebookID).Msg("Failed to delete notebook")
		WriteServiceError(w, err)
		return
	}

	h.logger.Info().
		Str("notebook_id", notebookID).
		Str("user_id", userID).
		Msg("Notebook deleted")

	w.WriteHeader(http.StatusNoContent)
}

// GetSummaryHandler handles GET /api/notebooks/{id}/summary
func (h *NotebookHandler) GetSummaryHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), notebookID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
