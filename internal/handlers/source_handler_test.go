package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francids/escruta/internal/common"
)

// uploadRequest builds a multipart upload request with the given form
// fields and an inline text file.
func uploadRequest(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if withFile {
		part, err := writer.CreateFormFile("file", "notes.txt")
		require.NoError(t, err)
		_, err = part.Write([]byte("file body"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/notebooks/nb-1/sources/file", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	r.Header.Set(userHeader, "user-1")
	return r
}

func TestUploadHandler_RequiresTitle(t *testing.T) {
	h := NewSourceHandler(nil, common.GetLogger())

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing title", map[string]string{}},
		{"blank title", map[string]string{"title": "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.UploadHandler(w, uploadRequest(t, tt.fields, true), "nb-1")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Title")
		})
	}
}

func TestUploadHandler_MissingFile(t *testing.T) {
	h := NewSourceHandler(nil, common.GetLogger())

	w := httptest.NewRecorder()
	h.UploadHandler(w, uploadRequest(t, map[string]string{"title": "Notes"}, false), "nb-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing file field")
}

func TestFormBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.Form = map[string][]string{"aiConverter": {tt.value}}
		assert.Equal(t, tt.want, formBool(r, "aiConverter"), "value %q", tt.value)
	}
}
