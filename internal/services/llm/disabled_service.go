package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
)

// DisabledService implements LLMService when no provider is configured.
// Every model operation fails, which downstream services treat as a signal
// to degrade: chat falls back to recent-entry context and indexing is
// skipped.
type DisabledService struct {
	logger arbor.ILogger
}

// NewDisabledService creates an LLM service stub for keyless deployments
func NewDisabledService(logger arbor.ILogger) *DisabledService {
	logger.Warn().Msg("No LLM provider configured, running with model features disabled")
	return &DisabledService{logger: logger}
}

func (s *DisabledService) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("LLM provider is not configured")
}

func (s *DisabledService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", fmt.Errorf("LLM provider is not configured")
}

func (s *DisabledService) HealthCheck(ctx context.Context) error {
	return fmt.Errorf("LLM provider is not configured")
}

func (s *DisabledService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeDisabled
}

// ModelName returns an empty model name
func (s *DisabledService) ModelName() string {
	return ""
}

func (s *DisabledService) Close() error {
	return nil
}
