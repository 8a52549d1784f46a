package embeddings

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
)

// Service implements EmbeddingService on top of the configured LLM provider
type Service struct {
	llm       interfaces.LLMService
	modelName string
	dimension int
	logger    arbor.ILogger
}

// NewService creates an embedding service backed by the given LLM service
func NewService(llm interfaces.LLMService, modelName string, dimension int, logger arbor.ILogger) interfaces.EmbeddingService {
	return &Service{
		llm:       llm,
		modelName: modelName,
		dimension: dimension,
		logger:    logger,
	}
}

// GenerateEmbedding generates an embedding vector for raw text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	return s.llm.Embed(ctx, text)
}

// EmbedChunk generates and sets the embedding for a chunk
func (s *Service) EmbedChunk(ctx context.Context, chunk *models.Chunk) error {
	embedding, err := s.GenerateEmbedding(ctx, chunk.Text)
	if err != nil {
		return fmt.Errorf("failed to embed chunk %s: %w", chunk.ID, err)
	}
	chunk.Embedding = embedding
	return nil
}

// GenerateQueryEmbedding generates an embedding for a retrieval query.
// Queries use the same model and dimensionality as stored chunks so cosine
// similarity is meaningful.
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return s.GenerateEmbedding(ctx, query)
}

// ModelName returns the embedding model name
func (s *Service) ModelName() string {
	return s.modelName
}

// Dimension returns the embedding vector dimension
func (s *Service) Dimension() int {
	return s.dimension
}

// IsAvailable reports whether the backing provider can generate embeddings
func (s *Service) IsAvailable(ctx context.Context) bool {
	return s.llm.GetMode() == interfaces.LLMModeCloud
}
