package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/interfaces"
)

// summarySystemPromptTemplate yields concise citation-free summaries.
const summarySystemPromptTemplate = `You are an expert content summarizer. Your task is to create a concise summary of the provided content.
The summary should be %d or fewer sentences that capture the essential information and main points.
Focus on the key concepts, findings, or conclusions presented in the content.
The summary must be clear, complete, and free of citations or references.`

// Service generates short summaries of source content. Callers on the
// ingestion path swallow failures: a missing summary never fails an add.
type Service struct {
	llm          interfaces.LLMService
	maxSentences int
	logger       arbor.ILogger
}

// NewService creates a summarizer bounded to maxSentences per summary.
func NewService(llm interfaces.LLMService, maxSentences int, logger arbor.ILogger) *Service {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	return &Service{
		llm:          llm,
		maxSentences: maxSentences,
		logger:       logger,
	}
}

// Summarize returns a short summary of one piece of content.
func (s *Service) Summarize(ctx context.Context, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("content cannot be empty for summarization")
	}

	output, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: fmt.Sprintf(summarySystemPromptTemplate, s.maxSentences)},
		{Role: "user", Content: content},
	})
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	output = strings.TrimSpace(output)
	if output == "" {
		return "", fmt.Errorf("summary generation returned blank output")
	}

	return output, nil
}

// SummarizeAll summarizes the concatenation of several contents, used for
// the notebook-level rollup. Blank entries are skipped.
func (s *Service) SummarizeAll(ctx context.Context, contents []string) (string, error) {
	kept := make([]string, 0, len(contents))
	for _, content := range contents {
		if strings.TrimSpace(content) != "" {
			kept = append(kept, strings.TrimSpace(content))
		}
	}
	if len(kept) == 0 {
		return "", fmt.Errorf("no content available for summarization")
	}

	return s.Summarize(ctx, strings.Join(kept, "\n\n---\n\n"))
}
