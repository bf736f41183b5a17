package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

// GroundingStrictness selects the system prompt register.
type GroundingStrictness string

const (
	// GroundingStrict forbids any knowledge outside the retrieved sources
	GroundingStrict GroundingStrictness = "strict"

	// GroundingRelaxed keeps answers source-bound but conversational
	GroundingRelaxed GroundingStrictness = "relaxed"
)

// Policy bundles the answer-shaping decisions selected once at wiring time.
type Policy struct {
	// EnforceJSONCitations makes the model emit a structured citation list
	// which is then validated against the retrieved set
	EnforceJSONCitations bool

	// MaxSummarySentences bounds generated summaries
	MaxSummarySentences int

	// GroundingStrictness selects between the strict and relaxed prompts
	GroundingStrictness GroundingStrictness
}

// Retriever fetches the chunks most similar to a question within one
// notebook.
type Retriever interface {
	Retrieve(ctx context.Context, notebookID, question string) ([]models.RetrievedDocument, error)
}

// Service generates grounded answers. Failures on the chat path never
// surface as raw errors: every degradation lands on a fixed message so the
// caller always receives a well-formed reply.
type Service struct {
	retriever Retriever
	llm       interfaces.LLMService
	policy    Policy
	logger    arbor.ILogger
}

// NewService creates an answer service with the given policy.
func NewService(retriever Retriever, llm interfaces.LLMService, policy Policy, logger arbor.ILogger) *Service {
	if policy.MaxSummarySentences <= 0 {
		policy.MaxSummarySentences = 3
	}
	if policy.GroundingStrictness == "" {
		policy.GroundingStrictness = GroundingStrict
	}
	return &Service{
		retriever: retriever,
		llm:       llm,
		policy:    policy,
		logger:    logger,
	}
}

// citedReply is the structured output shape requested from the model when
// JSON citations are enforced.
type citedReply struct {
	Message        string   `json:"message"`
	CitedSourceIDs []string `json:"citedSourceIds"`
}

// Answer runs retrieval and grounded generation for one question.
// Flow: retrieve, short-circuit on empty retrieval, generate, validate
// citations, deliver. Engine failures degrade to the error fallback.
func (s *Service) Answer(ctx context.Context, notebookID, question string) (*interfaces.ChatReply, error) {
	docs, err := s.retriever.Retrieve(ctx, notebookID, question)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("notebook_id", notebookID).
			Msg("Retrieval failed, returning fallback reply")
		return &interfaces.ChatReply{
			Message:      ErrorFallbackMessage,
			CitedSources: []models.CitedSource{},
		}, nil
	}

	if len(docs) == 0 {
		return &interfaces.ChatReply{
			Message:      CannotAnswerMessage,
			CitedSources: []models.CitedSource{},
		}, nil
	}

	systemPrompt := buildSystemPrompt(s.policy.GroundingStrictness, docs, s.policy.EnforceJSONCitations)
	output, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: question},
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("notebook_id", notebookID).
			Msg("Answer generation failed, returning fallback reply")
		return &interfaces.ChatReply{
			Message:      ErrorFallbackMessage,
			CitedSources: []models.CitedSource{},
		}, nil
	}

	message, cited := s.parseReply(output, docs)
	if strings.TrimSpace(message) == "" {
		message = CannotAnswerMessage
		cited = []models.CitedSource{}
	}

	return &interfaces.ChatReply{
		Message:      message,
		CitedSources: cited,
	}, nil
}

// parseReply extracts the message and validated citations from raw model
// output. With JSON citations enforced, any cited id missing from the
// retrieved set is silently dropped. When the output is not the expected
// JSON, the whole text is the message and every distinct retrieved source
// is cited, matching the non-structured contract.
func (s *Service) parseReply(output string, docs []models.RetrievedDocument) (string, []models.CitedSource) {
	output = strings.TrimSpace(output)

	if !s.policy.EnforceJSONCitations {
		return output, distinctSources(docs)
	}

	var reply citedReply
	if err := json.Unmarshal([]byte(stripCodeFence(output)), &reply); err != nil || reply.Message == "" {
		s.logger.Warn().
			Int("output_length", len(output)).
			Msg("Model output not in expected citation format, citing all retrieved sources")
		return output, distinctSources(docs)
	}

	if strings.TrimSpace(reply.Message) == CannotAnswerMessage {
		return reply.Message, []models.CitedSource{}
	}

	titles := make(map[string]string, len(docs))
	for _, doc := range docs {
		titles[doc.Metadata.SourceID] = doc.Metadata.Title
	}

	seen := make(map[string]bool)
	cited := make([]models.CitedSource, 0, len(reply.CitedSourceIDs))
	for _, id := range reply.CitedSourceIDs {
		title, ok := titles[id]
		if !ok {
			s.logger.Warn().
				Str("source_id", id).
				Msg("Dropping hallucinated citation")
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		cited = append(cited, models.CitedSource{SourceID: id, Title: title})
	}

	return reply.Message, cited
}

// ExampleQuestions generates three short questions answerable from the
// notebook's sources.
func (s *Service) ExampleQuestions(ctx context.Context, notebookID string) (*interfaces.ExampleQuestions, error) {
	docs, err := s.retriever.Retrieve(ctx, notebookID, exampleQuestionsUserPrompt)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	if len(docs) == 0 {
		return &interfaces.ExampleQuestions{Questions: []string{}}, nil
	}

	systemPrompt := fmt.Sprintf(relaxedSystemPrompt, buildSourceBlock(docs))
	output, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: exampleQuestionsUserPrompt},
	})
	if err != nil {
		return nil, fmt.Errorf("example question generation failed: %w", err)
	}

	var questions interfaces.ExampleQuestions
	if err := json.Unmarshal([]byte(stripCodeFence(output)), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse example questions: %w", err)
	}

	return &questions, nil
}

// distinctSources maps retrieved documents to their distinct sources,
// preserving retrieval order.
func distinctSources(docs []models.RetrievedDocument) []models.CitedSource {
	seen := make(map[string]bool)
	cited := make([]models.CitedSource, 0, len(docs))
	for _, doc := range docs {
		if seen[doc.Metadata.SourceID] {
			continue
		}
		seen[doc.Metadata.SourceID] = true
		cited = append(cited, models.CitedSource{
			SourceID: doc.Metadata.SourceID,
			Title:    doc.Metadata.Title,
		})
	}
	return cited
}

// stripCodeFence removes a surrounding markdown code fence, which models
// frequently wrap JSON output in despite instructions.
func stripCodeFence(output string) string {
	trimmed := strings.TrimSpace(output)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
