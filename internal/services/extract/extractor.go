package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/models"
)

// Supported upload MIME types.
const (
	mimePDF      = "application/pdf"
	mimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText     = "text/plain"
	mimeMarkdown = "text/markdown"
)

// Extractor turns uploaded file bytes into plain text. The MIME type gate
// runs before any parsing so unsupported uploads are rejected cheaply.
type Extractor struct {
	logger arbor.ILogger
}

// NewExtractor creates a file content extractor.
func NewExtractor(logger arbor.ILogger) *Extractor {
	return &Extractor{logger: logger}
}

// IsSupported reports whether the given MIME type can be extracted.
// Parameters after the media type (charset and the like) are ignored.
func (e *Extractor) IsSupported(mimeType string) bool {
	switch baseMIMEType(mimeType) {
	case mimePDF, mimeDOCX, mimeText, mimeMarkdown:
		return true
	}
	return false
}

// Extract returns the plain text content of the file. Unsupported types
// yield models.ErrUnsupportedFileType; supported files with no extractable
// text yield an ExtractionError wrapping models.ErrEmptyContent.
func (e *Extractor) Extract(data []byte, filename, mimeType string) (string, error) {
	base := baseMIMEType(mimeType)

	var text string
	var err error
	switch base {
	case mimePDF:
		text, err = extractPDF(data)
	case mimeDOCX:
		text, err = extractDOCX(data)
	case mimeText, mimeMarkdown:
		text = string(data)
	default:
		return "", models.ErrUnsupportedFileType
	}

	if err != nil {
		e.logger.Warn().
			Err(err).
			Str("filename", filename).
			Str("mime_type", base).
			Msg("File extraction failed")
		return "", &models.ExtractionError{Filename: filename, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &models.ExtractionError{Filename: filename, Err: models.ErrEmptyContent}
	}

	e.logger.Debug().
		Str("filename", filename).
		Str("mime_type", base).
		Int("text_length", len(text)).
		Msg("File content extracted")

	return text, nil
}

func baseMIMEType(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// extractPDF pulls plain text from every page of the document.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plainText); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return buf.String(), nil
}
