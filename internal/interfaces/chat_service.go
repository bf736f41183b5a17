package interfaces

import (
	"context"

	"github.com/francids/escruta/internal/models"
)

// ChatReply is the citation-validated answer returned to the caller.
// CitedSources is always a subset of the retrieved documents' source ids.
type ChatReply struct {
	Message      string               `json:"message"`
	CitedSources []models.CitedSource `json:"citedSources"`
}

// ExampleQuestions holds generated starter questions for a notebook
type ExampleQuestions struct {
	Questions []string `json:"questions"`
}

// AnswerService generates grounded answers from retrieved source text
type AnswerService interface {
	// Answer runs retrieval and grounded generation for one question.
	// It never returns a raw engine error: failures degrade to a fixed,
	// polite fallback reply.
	Answer(ctx context.Context, notebookID, question string) (*ChatReply, error)

	// ExampleQuestions generates three short questions answerable from
	// the notebook's sources
	ExampleQuestions(ctx context.Context, notebookID string) (*ExampleQuestions, error)
}

// Indexer accepts sources for background chunking and vector indexing.
// Enqueue returns immediately; task outcomes are observable only via logs.
type Indexer interface {
	Enqueue(source *models.Source) error
	Stop()
}
