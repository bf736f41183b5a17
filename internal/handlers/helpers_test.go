package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francids/escruta/internal/models"
)

func TestWriteServiceError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"forbidden hides existence", models.ErrForbidden, http.StatusNotFound},
		{"unsupported file type", models.ErrUnsupportedFileType, http.StatusUnsupportedMediaType},
		{"empty content", models.ErrEmptyContent, http.StatusUnprocessableEntity},
		{"fetch failure", &models.FetchError{URL: "https://example.com", Err: errors.New("timeout")}, http.StatusUnprocessableEntity},
		{"extraction failure", &models.ExtractionError{Filename: "a.pdf", Err: errors.New("corrupt")}, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(rec, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestWriteServiceError_ForbiddenBodyMatchesNotFound(t *testing.T) {
	recForbidden := httptest.NewRecorder()
	WriteServiceError(recForbidden, models.ErrForbidden)

	recMissing := httptest.NewRecorder()
	WriteServiceError(recMissing, models.ErrNotFound)

	// A caller probing notebook ids must not be able to tell the two apart.
	assert.Equal(t, recMissing.Body.String(), recForbidden.Body.String())
}

func TestWriteServiceError_InternalErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, errors.New("badger: iterator closed"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body["error"], "badger")
}

func TestDecodeAndValidate(t *testing.T) {
	type req struct {
		Title string `json:"title" validate:"required,min=1"`
	}

	t.Run("valid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"ok"}`))

		var dst req
		assert.True(t, DecodeAndValidate(rec, r, &dst))
		assert.Equal(t, "ok", dst.Title)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))

		var dst req
		assert.False(t, DecodeAndValidate(rec, r, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":""}`))

		var dst req
		assert.False(t, DecodeAndValidate(rec, r, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPathSegments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/api/notebooks/abc", []string{"abc"}},
		{"/api/notebooks/abc/", []string{"abc"}},
		{"/api/notebooks/abc/sources", []string{"abc", "sources"}},
		{"/api/notebooks/abc/sources/s1/summary", []string{"abc", "sources", "s1", "summary"}},
		{"/api/notebooks/", nil},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.path, nil)
		assert.Equal(t, tt.want, PathSegments(r, "/api/notebooks/"), tt.path)
	}
}

func TestRequireUser(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-User-ID", "user-1")

		userID, ok := RequireUser(rec, r)
		assert.True(t, ok)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)

		_, ok := RequireUser(rec, r)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blank header rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-User-ID", "   ")

		_, ok := RequireUser(rec, r)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
