package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/services/notes"
)

// NoteHandler handles note CRUD requests
type NoteHandler struct {
	service *notes.Service
	logger  arbor.ILogger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(service *notes.Service, logger arbor.ILogger) *NoteHandler {
	return &NoteHandler{
		service: service,
		logger:  logger,
	}
}

// ListHandler handles GET /api/notebooks/{id}/notes
func (h *NoteHandler) ListHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), notebookID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

// CreateHandler handles POST /api/notebooks/{id}/notes
func (h *NoteHandler) CreateHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req notes.CreateNoteRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.service.Create(r.Context(), notebookID, userID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, note)
}

// GetHandler handles GET /api/notebooks/{id}/notes/{noteId}
func (h *NoteHandler) GetHandler(w http.ResponseWriter, r *http.Request, notebookID, noteID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	note, err := h.service.Get(r.Context(), notebookID, noteID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, note)
}

// UpdateHandler handles PUT /api/notebooks/{id}/notes/{noteId}
func (h *NoteHandler) UpdateHandler(w http.ResponseWriter, r *http.Request, notebookID, noteID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req notes.UpdateNoteRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.service.Update(r.Context(), notebookID, noteID, userID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, note)
}

// DeleteHandler handles DELETE /api/notebooks/{id}/notes/{noteId}
func (h *NoteHandler) DeleteHandler(w http.ResponseWriter, r *http.Request, notebookID, noteID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), notebookID, noteID, userID); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
