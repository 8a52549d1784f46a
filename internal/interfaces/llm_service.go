package interfaces

import (
	"context"
)

// LLMMode represents the operational mode of the LLM service
type LLMMode string

const (
	// LLMModeCloud indicates the service uses cloud-based LLM APIs
	LLMModeCloud LLMMode = "cloud"

	// LLMModeDisabled indicates no LLM provider is configured; retrieval
	// and chat degrade to recent-entry fallbacks.
	LLMModeDisabled LLMMode = "disabled"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string `json:"role"`

	// Content contains the text content of the message
	Content string `json:"content"`
}

// LLMService defines the interface for language model operations including
// embeddings generation and chat completions. Implementations wrap cloud
// providers (Gemini, Claude).
type LLMService interface {
	// Embed generates an embedding vector for the given text. The vector
	// dimension is fixed by configuration and must match what the chunk
	// store was built with.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion response based on the conversation
	// history. The messages slice carries the full conversation context in
	// chronological order, including system prompts.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the LLM service is operational and can handle
	// requests.
	HealthCheck(ctx context.Context) error

	// GetMode returns the current operational mode of the LLM service.
	GetMode() LLMMode

	// Close releases resources and performs cleanup operations.
	Close() error
}
