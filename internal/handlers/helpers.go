package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/francids/escruta/internal/models"
)

// validate is shared across handlers; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = validator.New()

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteServiceError maps service-layer sentinel errors to HTTP status codes.
// Ownership failures answer 404 so a caller probing random notebook ids
// cannot distinguish "does not exist" from "not yours".
func WriteServiceError(w http.ResponseWriter, err error) error {
	var fetchErr *models.FetchError
	var extractErr *models.ExtractionError

	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrForbidden):
		return WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrUnsupportedFileType):
		return WriteError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &fetchErr), errors.As(err, &extractErr), errors.Is(err, models.ErrEmptyContent):
		return WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		return WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// DecodeAndValidate decodes the request body into dst and runs struct
// validation. Returns false after writing the error response.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// PathSegments splits the request path after the given prefix into its
// non-empty segments. "/api/notebooks/abc/sources" with prefix
// "/api/notebooks/" yields ["abc", "sources"].
func PathSegments(r *http.Request, prefix string) []string {
	trimmed := strings.TrimPrefix(r.URL.Path, prefix)
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
