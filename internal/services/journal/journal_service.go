package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/common"
	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
)

// Service manages journal entries: persistence, chunk extraction and
// embedding, and import of the legacy JSONL data set.
type Service struct {
	entries   interfaces.EntryStorage
	chunks    interfaces.ChunkStorage
	embedding interfaces.EmbeddingService
	events    interfaces.EventService
	logger    arbor.ILogger
}

// NewService creates a journal service
func NewService(
	entries interfaces.EntryStorage,
	chunks interfaces.ChunkStorage,
	embedding interfaces.EmbeddingService,
	events interfaces.EventService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		entries:   entries,
		chunks:    chunks,
		embedding: embedding,
		events:    events,
		logger:    logger,
	}
}

// AddEntry validates, persists and indexes a new journal entry. The entry
// is stored even when indexing fails, so journaling never depends on the
// model provider being reachable.
func (s *Service) AddEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if entry == nil {
		return nil, fmt.Errorf("entry is required")
	}

	entry.Normalize()

	if entry.EntryType == "" {
		entry.EntryType = models.EntryTypeGeneralNote
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid entry: %w", err)
	}

	if entry.ID == "" {
		entry.ID = common.NewEntryID()
	}
	if entry.TimestampUTC.IsZero() {
		entry.TimestampUTC = common.NowUTC()
	}

	if err := s.entries.SaveEntry(entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("entry_id", entry.ID).
		Str("entry_type", entry.EntryType).
		Msg("Journal entry added")

	if err := s.IndexEntry(ctx, entry); err != nil {
		s.logger.Warn().
			Err(err).
			Str("entry_id", entry.ID).
			Msg("Entry saved but indexing failed")
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, interfaces.Event{
			Type:    interfaces.EventEntryAdded,
			Payload: entry,
		})
	}

	return entry, nil
}

// IndexEntry extracts chunks from the entry, embeds them and replaces any
// previously stored chunks for the entry.
func (s *Service) IndexEntry(ctx context.Context, entry *models.Entry) error {
	if !s.embedding.IsAvailable(ctx) {
		return fmt.Errorf("embedding service unavailable")
	}

	chunks := ExtractChunks(entry)
	if len(chunks) == 0 {
		return nil
	}

	for _, chunk := range chunks {
		if err := s.embedding.EmbedChunk(ctx, chunk); err != nil {
			return fmt.Errorf("failed to embed chunk for entry %s: %w", entry.ID, err)
		}
	}

	if err := s.chunks.DeleteChunksForEntry(entry.ID); err != nil {
		return err
	}
	if err := s.chunks.SaveChunks(chunks); err != nil {
		return err
	}

	now := common.NowUTC()
	entry.IndexedAt = &now
	if err := s.entries.SaveEntry(entry); err != nil {
		return err
	}

	s.logger.Debug().
		Str("entry_id", entry.ID).
		Int("chunks", len(chunks)).
		Msg("Entry indexed")

	return nil
}

// GetEntry returns a single entry by ID
func (s *Service) GetEntry(id string) (*models.Entry, error) {
	return s.entries.GetEntry(id)
}

// ListEntries returns entries newest first
func (s *Service) ListEntries(opts *interfaces.EntryListOptions) ([]*models.Entry, error) {
	return s.entries.ListEntries(opts)
}

// RecentEntries returns the most recent entries
func (s *Service) RecentEntries(limit int) ([]*models.Entry, error) {
	return s.entries.RecentEntries(limit)
}

// DeleteEntry removes an entry and any chunks indexed from it.
func (s *Service) DeleteEntry(id string) error {
	if _, err := s.entries.GetEntry(id); err != nil {
		return err
	}
	if err := s.chunks.DeleteChunksForEntry(id); err != nil {
		return fmt.Errorf("failed to delete entry chunks: %w", err)
	}
	if err := s.entries.DeleteEntry(id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	s.logger.Info().Str("entry_id", id).Msg("Entry deleted")
	return nil
}

// ReindexResult summarizes a batch reindex run
type ReindexResult struct {
	Total   int `json:"total"`
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ReindexAll re-extracts and re-embeds chunks for every stored entry
func (s *Service) ReindexAll(ctx context.Context) (*ReindexResult, error) {
	if !s.embedding.IsAvailable(ctx) {
		return nil, fmt.Errorf("embedding service unavailable")
	}

	entries, err := s.entries.ListEntries(nil)
	if err != nil {
		return nil, err
	}

	result := &ReindexResult{Total: len(entries)}
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		chunks := ExtractChunks(entry)
		if len(chunks) == 0 {
			result.Skipped++
			continue
		}

		if err := s.IndexEntry(ctx, entry); err != nil {
			s.logger.Error().
				Err(err).
				Str("entry_id", entry.ID).
				Msg("Reindex failed for entry")
			result.Failed++
			continue
		}
		result.Indexed++
	}

	s.logger.Info().
		Int("total", result.Total).
		Int("indexed", result.Indexed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("Reindex completed")

	if s.events != nil {
		_ = s.events.Publish(ctx, interfaces.Event{
			Type:    interfaces.EventReindexTriggered,
			Payload: result,
		})
	}

	return result, nil
}

// Stats summarizes the journal contents
func (s *Service) Stats() (*models.EntryStats, error) {
	total, err := s.entries.CountEntries()
	if err != nil {
		return nil, err
	}

	byType := make(map[string]int)
	for _, entryType := range models.EntryTypes {
		count, err := s.entries.CountEntriesByType(entryType)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			byType[entryType] = count
		}
	}

	chunkCount, err := s.chunks.CountChunks()
	if err != nil {
		return nil, err
	}

	indexed := 0
	entries, err := s.entries.ListEntries(nil)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IndexedAt != nil {
			indexed++
		}
	}

	return &models.EntryStats{
		TotalEntries:   total,
		EntriesByType:  byType,
		IndexedEntries: indexed,
		ChunkCount:     chunkCount,
		LastUpdated:    common.NowUTC(),
	}, nil
}

// legacyEntry mirrors one line of the legacy JSONL export. Timestamps are
// strings there, with inconsistent zone suffixes.
type legacyEntry struct {
	ID             string              `json:"entry_id"`
	TimestampUTC   string              `json:"timestamp_utc"`
	EntryType      string              `json:"entry_type"`
	PrimaryEmotion string              `json:"primary_emotion"`
	TriggerEvent   models.TriggerEvent `json:"trigger_event"`
	ThoughtsDuring []string            `json:"my_thoughts_during"`
	Reflection     models.Reflection   `json:"reflection_learnings"`
	Tags           []string            `json:"tags"`
	Intensity      int                 `json:"intensity_level"`
}

// ImportResult summarizes a legacy JSONL import run
type ImportResult struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportLegacyJSONL loads the legacy journal export, one JSON object per
// line. Malformed lines are skipped with a warning rather than aborting the
// import, matching how the old loader behaved. Imported entries are not
// indexed here; run ReindexAll afterwards.
func (s *Service) ImportLegacyJSONL(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy data file: %w", err)
	}
	defer f.Close()

	result := &ImportResult{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		result.Total++

		var legacy legacyEntry
		if err := json.Unmarshal(line, &legacy); err != nil {
			s.logger.Warn().
				Int("line", lineNum).
				Err(err).
				Msg("Skipping malformed JSON line")
			result.Skipped++
			continue
		}

		entry := &models.Entry{
			ID:             legacy.ID,
			EntryType:      legacy.EntryType,
			PrimaryEmotion: legacy.PrimaryEmotion,
			TriggerEvent:   legacy.TriggerEvent,
			ThoughtsDuring: legacy.ThoughtsDuring,
			Reflection:     legacy.Reflection,
			Tags:           legacy.Tags,
			Intensity:      legacy.Intensity,
		}
		entry.Normalize()

		if entry.ID == "" {
			entry.ID = common.NewEntryID()
		}
		if !models.IsValidEntryType(entry.EntryType) {
			entry.EntryType = models.EntryTypeGeneralNote
		}
		if ts, err := common.ParseUTC(legacy.TimestampUTC); err == nil {
			entry.TimestampUTC = ts
		} else {
			entry.TimestampUTC = common.NowUTC()
		}

		if err := s.entries.SaveEntry(entry); err != nil {
			s.logger.Warn().
				Int("line", lineNum).
				Err(err).
				Msg("Skipping entry that failed to save")
			result.Skipped++
			continue
		}
		result.Imported++
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read legacy data file: %w", err)
	}

	s.logger.Info().
		Str("path", path).
		Int("total", result.Total).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Legacy import completed")

	return result, nil
}
