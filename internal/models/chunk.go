package models

import "time"

// Chunk is a retrievable fragment of text extracted from a journal entry,
// stored alongside its embedding vector. Metadata fields are duplicated from
// the parent entry so similarity queries can filter without a join.
type Chunk struct {
	ID      string `json:"chunk_id" badgerhold:"key"`
	EntryID string `json:"entry_id" badgerhold:"index"`
	Text    string `json:"text"`

	// Embedding vector produced by the configured embedding model.
	Embedding []float32 `json:"embedding,omitempty"`

	// Filterable metadata copied from the parent entry (lowercased).
	EntryType      string    `json:"entry_type"`
	PrimaryEmotion string    `json:"primary_emotion,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	TimestampUTC   time.Time `json:"timestamp_utc"`

	CreatedAt time.Time `json:"created_at"`
}

// ChunkFilter restricts a similarity query to chunks whose metadata matches.
// Zero-valued fields are ignored. Mirrors the equality-only filters the
// legacy vector store supported.
type ChunkFilter struct {
	EntryType      string `json:"entry_type,omitempty"`
	PrimaryEmotion string `json:"primary_emotion,omitempty"`
	Tag            string `json:"tag,omitempty"`
}

// Matches reports whether the chunk satisfies every set filter field.
func (f *ChunkFilter) Matches(c *Chunk) bool {
	if f == nil {
		return true
	}
	if f.EntryType != "" && c.EntryType != f.EntryType {
		return false
	}
	if f.PrimaryEmotion != "" && c.PrimaryEmotion != f.PrimaryEmotion {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range c.Tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ScoredChunk pairs a chunk with its similarity score for ranking.
type ScoredChunk struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}
