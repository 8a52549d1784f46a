package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
)

// ChunkStorage implements the ChunkStorage interface for Badger
type ChunkStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChunkStorage creates a new ChunkStorage instance
func NewChunkStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChunkStorage {
	return &ChunkStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ChunkStorage) SaveChunks(chunks []*models.Chunk) error {
	for _, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("chunk ID is required")
		}
		if err := s.db.Store().Upsert(chunk.ID, chunk); err != nil {
			return fmt.Errorf("failed to save chunk %s: %w", chunk.ID, err)
		}
	}
	return nil
}

func (s *ChunkStorage) DeleteChunksForEntry(entryID string) error {
	err := s.db.Store().DeleteMatching(&models.Chunk{}, badgerhold.Where("EntryID").Eq(entryID).Index("EntryID"))
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete chunks for entry %s: %w", entryID, err)
	}
	return nil
}

// ListChunks returns chunks matching the filter. Equality filters on entry
// type and emotion are pushed down to the store; tag membership is checked
// in memory since tags are a slice field.
func (s *ChunkStorage) ListChunks(filter *models.ChunkFilter) ([]*models.Chunk, error) {
	query := badgerhold.Where("ID").Ne("")

	if filter != nil {
		if filter.EntryType != "" {
			query = query.And("EntryType").Eq(filter.EntryType)
		}
		if filter.PrimaryEmotion != "" {
			query = query.And("PrimaryEmotion").Eq(filter.PrimaryEmotion)
		}
	}

	var chunks []models.Chunk
	if err := s.db.Store().Find(&chunks, query); err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	result := make([]*models.Chunk, 0, len(chunks))
	for i := range chunks {
		chunk := &chunks[i]
		if filter != nil && !filter.Matches(chunk) {
			continue
		}
		result = append(result, chunk)
	}
	return result, nil
}

func (s *ChunkStorage) CountChunks() (int, error) {
	count, err := s.db.Store().Count(&models.Chunk{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return int(count), nil
}
