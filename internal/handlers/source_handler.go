package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/services/sources"
)

// maxUploadBytes bounds file upload size before extraction work begins.
const maxUploadBytes = 25 << 20

// formBool reads an optional boolean form value. Absent or unparseable
// values read as false.
func formBool(r *http.Request, field string) bool {
	value, err := strconv.ParseBool(r.FormValue(field))
	if err != nil {
		return false
	}
	return value
}

// SourceHandler handles source ingestion and management requests
type SourceHandler struct {
	service *sources.Service
	logger  arbor.ILogger
}

// NewSourceHandler creates a new source handler
func NewSourceHandler(service *sources.Service, logger arbor.ILogger) *SourceHandler {
	return &SourceHandler{
		service: service,
		logger:  logger,
	}
}

// ListHandler handles GET /api/notebooks/{id}/sources
func (h *SourceHandler) ListHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	infos, err := h.service.List(r.Context(), notebookID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, infos)
}

// AddHandler handles POST /api/notebooks/{id}/sources
func (h *SourceHandler) AddHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req sources.AddSourceRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	source, err := h.service.Add(r.Context(), notebookID, userID, req)
	if err != nil {
		h.logger.Error().Err(err).Str("link", req.Link).Msg("Failed to add source")
		WriteServiceError(w, err)
		return
	}

	h.logger.Info().
		Str("source_id", source.ID).
		Str("notebook_id", notebookID).
		Msg("Source added")

	WriteJSON(w, http.StatusCreated, source)
}

// UploadHandler handles POST /api/notebooks/{id}/sources/file with a
// multipart form carrying one file under the "file" field, a required
// "title" field, and optional "icon" and "aiConverter" fields.
func (h *SourceHandler) UploadHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := sources.FileSourceRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Icon:        r.FormValue("icon"),
		AIConverter: formBool(r, "aiConverter"),
	}
	if err := validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	source, err := h.service.AddFromFile(r.Context(), notebookID, userID, data, header.Filename, mimeType, req)
	if err != nil {
		h.logger.Error().Err(err).
			Str("filename", header.Filename).
			Str("mime_type", mimeType).
			Msg("Failed to add file source")
		WriteServiceError(w, err)
		return
	}

	h.logger.Info().
		Str("source_id", source.ID).
		Str("notebook_id", notebookID).
		Str("filename", header.Filename).
		Msg("File source added")

	WriteJSON(w, http.StatusCreated, source)
}

// GetHandler handles GET /api/notebooks/{id}/sources/{sourceId}
func (h *SourceHandler) GetHandler(w http.ResponseWriter, r *http.Request, notebookID, sourceID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	source, err := h.service.Get(r.Context(), notebookID, sourceID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, source)
}

// UpdateHandler handles PUT /api/notebooks/{id}/sources/{sourceId}
func (h *SourceHandler) UpdateHandler(w http.ResponseWriter, r *http.Request, notebookID, sourceID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req sources.UpdateSourceRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	source, err := h.service.Update(r.Context(), notebookID, sourceID, userID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, source)
}

// DeleteHandler handles DELETE /api/notebooks/{id}/sources/{sourceId}
func (h *SourceHandler) DeleteHandler(w http.ResponseWriter, r *http.Request, notebookID, sourceID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), notebookID, sourceID, userID); err != nil {
		h.logger.Error().Err(err).Str("source_id", sourceID).Msg("Failed to delete source")
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateSummaryHandler handles POST /api/notebooks/{id}/sources/{sourceId}/summary
func (h *SourceHandler) GenerateSummaryHandler(w http.ResponseWriter, r *http.Request, notebookID, sourceID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GenerateSummary(r.Context(), notebookID, sourceID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// GetSummaryHandler handles GET /api/notebooks/{id}/sources/{sourceId}/summary
func (h *SourceHandler) GetSummaryHandler(w http.ResponseWriter, r *http.Request, notebookID, sourceID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), notebookID, sourceID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// DeleteSummaryHandler handles DELETE /api/notebooks/{id}/sources/{sourceId}/summary
func (h *SourceHandler) DeleteSummaryHandler(w http.ResponseWriter, r *http.Request, notebookID, sourceID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSummary(r.Context(), notebookID, sourceID, userID); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateNotebookSummaryHandler handles POST /api/notebooks/{id}/summary
func (h *SourceHandler) GenerateNotebookSummaryHandler(w http.ResponseWriter, r *http.Request, notebookID string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GenerateNotebookSummary(r.Context(), notebookID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
