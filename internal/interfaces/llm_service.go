package interfaces

import (
	"context"
)

// LLMMode represents the operational mode of the LLM service
type LLMMode string

const (
	// LLMModeCloud indicates the service uses cloud-based LLM APIs
	LLMModeCloud LLMMode = "cloud"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the generation-engine contract: embeddings and
// single-turn chat completions. The engine is treated as a black box with
// no memory of prior calls; every blocking operation carries a context
// with a bounded timeout.
type LLMService interface {
	// Embed generates an embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion for the given messages. The messages
	// slice carries the full context including any system prompt.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the service is operational
	HealthCheck(ctx context.Context) error

	// GetMode returns the current operational mode
	GetMode() LLMMode

	// Close releases resources
	Close() error
}
