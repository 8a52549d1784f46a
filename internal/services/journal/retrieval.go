package journal

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
)

// Retriever performs similarity search over embedded journal chunks.
// The chunk count for a personal journal is small enough that a full scan
// with in-process cosine similarity outperforms the overhead of an external
// vector database.
type Retriever struct {
	chunks    interfaces.ChunkStorage
	embedding interfaces.EmbeddingService
	logger    arbor.ILogger
}

// NewRetriever creates a retriever over the chunk store
func NewRetriever(chunks interfaces.ChunkStorage, embedding interfaces.EmbeddingService, logger arbor.ILogger) *Retriever {
	return &Retriever{
		chunks:    chunks,
		embedding: embedding,
		logger:    logger,
	}
}

// Query embeds the query text and returns the top n most similar chunks
// that satisfy the filter, best first. Chunks without embeddings are skipped.
func (r *Retriever) Query(ctx context.Context, query string, n int, filter *models.ChunkFilter) ([]*models.ScoredChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if n <= 0 {
		n = 5
	}

	queryEmbedding, err := r.embedding.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	candidates, err := r.chunks.ListChunks(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	scored := make([]*models.ScoredChunk, 0, len(candidates))
	for _, chunk := range candidates {
		if len(chunk.Embedding) == 0 {
			continue
		}
		score, err := CosineSimilarity(queryEmbedding, chunk.Embedding)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("chunk_id", chunk.ID).
				Msg("Skipping chunk with incompatible embedding")
			continue
		}
		scored = append(scored, &models.ScoredChunk{Chunk: chunk, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > n {
		scored = scored[:n]
	}

	r.logger.Debug().
		Int("candidates", len(candidates)).
		Int("results", len(scored)).
		Msg("Similarity query completed")

	return scored, nil
}

// IsAvailable reports whether retrieval can run
func (r *Retriever) IsAvailable(ctx context.Context) bool {
	return r.embedding.IsAvailable(ctx)
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns an error when dimensions differ or either vector has zero norm.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-norm vector")
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
