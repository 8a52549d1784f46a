package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/common"
	"github.com/mymind-ai/mymind/internal/interfaces"
)

// Services bundles the provider-specific service instances the application
// uses. Chat and Embed may be backed by different providers: Claude has no
// embedding endpoint, so a Claude deployment still embeds through Gemini.
type Services struct {
	// Chat handles conversational completions
	Chat interfaces.LLMService

	// Embed handles embedding generation. Points at the same service as
	// Chat when the default provider is Gemini.
	Embed interfaces.LLMService
}

// NewServices creates LLM services based on the configured default provider.
// When no API key is available the services degrade to a disabled stub
// rather than failing startup, so the journal keeps working without a model.
func NewServices(config *common.Config, logger arbor.ILogger) (*Services, error) {
	switch config.LLM.DefaultProvider {
	case common.LLMProviderGemini:
		if config.Gemini.APIKey == "" {
			disabled := NewDisabledService(logger)
			return &Services{Chat: disabled, Embed: disabled}, nil
		}

		gemini, err := NewGeminiService(config, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini service: %w", err)
		}
		return &Services{Chat: gemini, Embed: gemini}, nil

	case common.LLMProviderClaude:
		if config.Claude.APIKey == "" {
			disabled := NewDisabledService(logger)
			return &Services{Chat: disabled, Embed: disabled}, nil
		}

		claude, err := NewClaudeService(config, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Claude service: %w", err)
		}

		// Claude handles chat; embeddings need Gemini when a key exists
		var embed interfaces.LLMService
		if config.Gemini.APIKey != "" {
			gemini, err := NewGeminiService(config, logger)
			if err != nil {
				return nil, fmt.Errorf("failed to create Gemini embedding service: %w", err)
			}
			embed = gemini
		} else {
			logger.Warn().Msg("Claude selected without a Gemini API key, embeddings disabled")
			embed = NewDisabledService(logger)
		}

		return &Services{Chat: claude, Embed: embed}, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.LLM.DefaultProvider)
	}
}

// ChatModelName returns the model identifier behind the chat service, or
// an empty string when disabled.
func (s *Services) ChatModelName() string {
	if named, ok := s.Chat.(interface{ ModelName() string }); ok {
		return named.ModelName()
	}
	return ""
}

// Close releases both services
func (s *Services) Close() error {
	var firstErr error
	if s.Chat != nil {
		if err := s.Chat.Close(); err != nil {
			firstErr = err
		}
	}
	if s.Embed != nil && s.Embed != s.Chat {
		if err := s.Embed.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
