package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
)

// NewLLMService creates the appropriate LLM service implementation based on
// configuration. Gemini serves both embeddings and chat; with the claude
// provider, Claude handles chat while embeddings still go through Gemini,
// so the Google API key is required either way.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	logger.Info().Str("provider", string(cfg.LLM.Provider)).Msg("Initializing LLM service")

	switch cfg.LLM.Provider {
	case common.LLMProviderGemini:
		return NewGeminiService(cfg, logger)

	case common.LLMProviderClaude:
		claude, err := NewClaudeService(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Claude service: %w", err)
		}
		gemini, err := NewGeminiService(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding service: %w", err)
		}
		return &hybridService{chat: claude, embed: gemini}, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}
}

// hybridService routes chat completions to one backend and embeddings to
// another. Used when the chat provider has no embedding endpoint.
type hybridService struct {
	chat  interfaces.LLMService
	embed interfaces.LLMService
}

func (s *hybridService) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.embed.Embed(ctx, text)
}

func (s *hybridService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return s.chat.Chat(ctx, messages)
}

func (s *hybridService) HealthCheck(ctx context.Context) error {
	if err := s.chat.HealthCheck(ctx); err != nil {
		return err
	}
	// Only the embedding side of the Gemini service matters here; a chat
	// probe against it would waste quota on a model nothing uses.
	if gemini, ok := s.embed.(*GeminiService); ok {
		return gemini.performEmbeddingHealthCheck(ctx)
	}
	return s.embed.HealthCheck(ctx)
}

func (s *hybridService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

func (s *hybridService) Close() error {
	errChat := s.chat.Close()
	errEmbed := s.embed.Close()
	if errChat != nil {
		return errChat
	}
	return errEmbed
}
