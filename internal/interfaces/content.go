package interfaces

import (
	"context"
)

// WebContent is the output shape of content acquisition: a display title
// and the raw text body stripped of markup.
type WebContent struct {
	Title string
	Text  string
}

// WebFetcher retrieves a web page with a bounded timeout. Failures surface
// as *models.FetchError and abort the whole add-source operation.
type WebFetcher interface {
	Fetch(ctx context.Context, url string) (*WebContent, error)
}

// FileExtractor extracts plain text from uploaded files. Unsupported MIME
// types are rejected before any extraction work.
type FileExtractor interface {
	IsSupported(mimeType string) bool
	Extract(data []byte, filename, mimeType string) (string, error)
}

// Normalizer rewrites raw text into clean structured text. The engine
// rewrite runs only when the caller opts in with aiConvert; otherwise the
// deterministic cleanup applies. Normalization failure is non-fatal:
// implementations fall back deterministically and never return an error.
// The boolean reports whether the engine rewrite was used, feeding the
// source's AIConverted flag.
type Normalizer interface {
	Normalize(ctx context.Context, raw string, aiConvert bool) (string, bool)
}
