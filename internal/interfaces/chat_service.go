package interfaces

import (
	"context"
)

// ChatRequest represents a chat request with context retrieval
type ChatRequest struct {
	// User's message
	Message string `json:"message"`

	// Conversation history (optional)
	History []Message `json:"history,omitempty"`

	// Expert overrides keyword routing when set (optional)
	Expert string `json:"expert,omitempty"`

	// RAG Configuration
	RAGConfig *RAGConfig `json:"rag_config,omitempty"`
}

// RAGConfig configures retrieval over the journal
type RAGConfig struct {
	// Enabled toggles retrieval. Omitted means the server default, so a
	// request that only sets a filter does not silently disable RAG.
	Enabled *bool `json:"enabled,omitempty"`

	// Maximum number of context chunks to retrieve (default from config)
	MaxChunks int `json:"max_chunks"`

	// Restrict retrieval to a single entry type (optional)
	EntryType string `json:"entry_type,omitempty"`

	// Restrict retrieval to a primary emotion (optional)
	PrimaryEmotion string `json:"primary_emotion,omitempty"`

	// Restrict retrieval to entries carrying a tag (optional)
	Tag string `json:"tag,omitempty"`
}

// ChatResponse represents the response from a chat request
type ChatResponse struct {
	// Generated response
	Message string `json:"message"`

	// Expert that handled the query
	Expert string `json:"expert"`

	// Context chunks that grounded the response
	ContextChunks []string `json:"context_chunks,omitempty"`

	// True when recent entries were used because retrieval was unavailable
	UsedFallbackContext bool `json:"used_fallback_context,omitempty"`

	// Model used
	Model string `json:"model"`

	// Mode (cloud/disabled)
	Mode LLMMode `json:"mode"`
}

// ChatService provides retrieval-grounded chat over the journal
type ChatService interface {
	// Chat sends a message and receives a response grounded in the user's
	// own journal entries.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// GetMode returns the current LLM mode
	GetMode() LLMMode

	// HealthCheck verifies the chat service is operational
	HealthCheck(ctx context.Context) error
}
