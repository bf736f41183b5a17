package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
)

// APIHandler serves system endpoints: version, health, and API 404s.
type APIHandler struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(llm interfaces.LLMService, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		llm:    llm,
		logger: logger,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetFullVersion(),
	})
}

// HealthHandler returns health check status. The generation engine probe
// runs inline; a failing engine degrades the status without taking the
// endpoint down.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := "ok"
	engine := "ok"
	if err := h.llm.HealthCheck(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Generation engine health check failed")
		status = "degraded"
		engine = err.Error()
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": status,
		"engine": engine,
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
