package models

import (
	"errors"
	"fmt"
)

// Sentinel errors form the discriminated outcome set services return.
// Callers branch with errors.Is rather than catching generic failures.
var (
	// ErrNotFound indicates the requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller does not own the notebook. Handlers
	// must map this without revealing whether the notebook exists.
	ErrForbidden = errors.New("forbidden")

	// ErrUnsupportedFileType indicates an upload with a MIME type outside
	// the supported set (PDF, DOCX, plain text, Markdown)
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyContent indicates extraction produced no usable text
	ErrEmptyContent = errors.New("no text content could be extracted")
)

// FetchError wraps a web acquisition failure (network or parse). Fatal to
// the add-source operation; no partial source is persisted.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch content from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractionError wraps a file text extraction failure
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
