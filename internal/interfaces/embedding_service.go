package interfaces

import (
	"context"

	"github.com/mymind-ai/mymind/internal/models"
)

// EmbeddingService generates vector embeddings
type EmbeddingService interface {
	// Generate embedding for raw text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Generate and set embedding for a chunk
	EmbedChunk(ctx context.Context, chunk *models.Chunk) error

	// Generate query embedding (may have different handling than chunk text)
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// Get model information
	ModelName() string
	Dimension() int

	// Check if service is available
	IsAvailable(ctx context.Context) bool
}
