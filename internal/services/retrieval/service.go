package retrieval

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

// Service embeds a question and fetches the most similar chunks from one
// notebook's index. An empty result set is a valid outcome, not an error.
type Service struct {
	llm     interfaces.LLMService
	vectors interfaces.VectorStorage
	topK    int
	logger  arbor.ILogger
}

// NewService creates a retrieval service.
func NewService(llm interfaces.LLMService, vectors interfaces.VectorStorage, topK int, logger arbor.ILogger) *Service {
	if topK <= 0 {
		topK = 4
	}
	return &Service{
		llm:     llm,
		vectors: vectors,
		topK:    topK,
		logger:  logger,
	}
}

// Retrieve returns up to topK chunks from the notebook ranked by cosine
// similarity to the question. The notebook filter is mandatory; chunks
// from other notebooks never appear in results.
func (s *Service) Retrieve(ctx context.Context, notebookID, question string) ([]models.RetrievedDocument, error) {
	if notebookID == "" {
		return nil, fmt.Errorf("notebook ID is required for retrieval")
	}
	if question == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}

	embedding, err := s.llm.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	docs, err := s.vectors.Search(ctx, embedding, s.topK, notebookID)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	s.logger.Debug().
		Str("notebook_id", notebookID).
		Int("results", len(docs)).
		Msg("Retrieval completed")

	return docs, nil
}
