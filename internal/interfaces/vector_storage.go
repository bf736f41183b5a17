package interfaces

import (
	"context"

	"github.com/francids/escruta/internal/models"
)

// VectorStorage is the vector-store contract the pipeline depends on.
// The store is externally synchronized: every add, search, or delete is a
// single independent request and no lock is held across calls. Duplicate or
// missing writes must be tolerated, never crash the caller.
type VectorStorage interface {
	// Add writes chunk records. Each chunk carries its own tenant metadata.
	Add(ctx context.Context, chunks []*models.IndexedChunk) error

	// Search returns the topK most similar chunks for the query embedding,
	// restricted to the given notebook. The notebook filter is the tenant
	// isolation boundary and is never optional. An empty result is a valid,
	// non-error outcome.
	Search(ctx context.Context, embedding []float32, topK int, notebookID string) ([]models.RetrievedDocument, error)

	// DeleteBySource removes every chunk derived from the given source
	DeleteBySource(ctx context.Context, sourceID string) error

	// DeleteByNotebook removes every chunk belonging to the given notebook
	DeleteByNotebook(ctx context.Context, notebookID string) error

	// CountBySource reports how many chunks are indexed for a source
	CountBySource(ctx context.Context, sourceID string) (int, error)
}
