package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
)

// fakeEntryStore is an in-memory EntryStorage for service tests
type fakeEntryStore struct {
	entries map[string]*models.Entry
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[string]*models.Entry)}
}

func (f *fakeEntryStore) SaveEntry(entry *models.Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("entry ID is required")
	}
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeEntryStore) GetEntry(id string) (*models.Entry, error) {
	if entry, ok := f.entries[id]; ok {
		return entry, nil
	}
	return nil, fmt.Errorf("entry not found: %s", id)
}

func (f *fakeEntryStore) ListEntries(opts *interfaces.EntryListOptions) ([]*models.Entry, error) {
	var result []*models.Entry
	for _, entry := range f.entries {
		if opts != nil && opts.EntryType != "" && entry.EntryType != opts.EntryType {
			continue
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampUTC.After(result[j].TimestampUTC)
	})
	if opts != nil && opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (f *fakeEntryStore) RecentEntries(limit int) ([]*models.Entry, error) {
	return f.ListEntries(&interfaces.EntryListOptions{Limit: limit})
}

func (f *fakeEntryStore) CountEntries() (int, error) {
	return len(f.entries), nil
}

func (f *fakeEntryStore) CountEntriesByType(entryType string) (int, error) {
	count := 0
	for _, entry := range f.entries {
		if entry.EntryType == entryType {
			count++
		}
	}
	return count, nil
}

func (f *fakeEntryStore) DeleteEntry(id string) error {
	delete(f.entries, id)
	return nil
}

func newTestService(available bool) (*Service, *fakeEntryStore, *fakeChunkStore) {
	entries := newFakeEntryStore()
	chunks := &fakeChunkStore{}
	embedder := &fakeEmbedder{available: available, vectors: map[string][]float32{}}
	svc := NewService(entries, chunks, embedder, nil, arbor.NewLogger())
	return svc, entries, chunks
}

func TestAddEntry_PersistsAndIndexes(t *testing.T) {
	svc, entries, chunks := newTestService(true)

	entry, err := svc.AddEntry(context.Background(), &models.Entry{
		EntryType:      "Emotion_Log",
		PrimaryEmotion: "Anxiety",
		TriggerEvent:   models.TriggerEvent{Summary: "Big exam tomorrow"},
		Tags:           []string{"Exam", "study"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.TimestampUTC.IsZero())
	// Classification fields are lowercased on the way in
	assert.Equal(t, models.EntryTypeEmotionLog, entry.EntryType)
	assert.Equal(t, "anxiety", entry.PrimaryEmotion)
	assert.Equal(t, []string{"exam", "study"}, entry.Tags)

	stored, err := entries.GetEntry(entry.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.IndexedAt)

	storedChunks, err := chunks.ListChunks(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, storedChunks)
	for _, chunk := range storedChunks {
		assert.NotEmpty(t, chunk.Embedding)
		assert.Equal(t, entry.ID, chunk.EntryID)
	}
}

func TestAddEntry_Validation(t *testing.T) {
	svc, _, _ := newTestService(true)
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, nil)
	assert.Error(t, err)

	_, err = svc.AddEntry(ctx, &models.Entry{EntryType: "bogus_type", TriggerEvent: models.TriggerEvent{Summary: "x"}})
	assert.Error(t, err)

	_, err = svc.AddEntry(ctx, &models.Entry{EntryType: models.EntryTypeGeneralNote})
	assert.Error(t, err, "summary is required")

	_, err = svc.AddEntry(ctx, &models.Entry{
		EntryType:    models.EntryTypeGeneralNote,
		TriggerEvent: models.TriggerEvent{Summary: "x"},
		Intensity:    11,
	})
	assert.Error(t, err)
}

func TestAddEntry_SavedEvenWhenIndexingUnavailable(t *testing.T) {
	svc, entries, chunks := newTestService(false)

	entry, err := svc.AddEntry(context.Background(), &models.Entry{
		EntryType:    models.EntryTypeGeneralNote,
		TriggerEvent: models.TriggerEvent{Summary: "Note without a model"},
	})
	require.NoError(t, err)

	stored, err := entries.GetEntry(entry.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.IndexedAt)

	count, _ := chunks.CountChunks()
	assert.Zero(t, count)
}

func TestReindexAll(t *testing.T) {
	svc, _, chunks := newTestService(true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.AddEntry(ctx, &models.Entry{
			EntryType:    models.EntryTypeProblemSolving,
			TriggerEvent: models.TriggerEvent{Summary: fmt.Sprintf("Problem number %d today", i)},
		})
		require.NoError(t, err)
	}

	result, err := svc.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Indexed)
	assert.Zero(t, result.Failed)

	// Reindex replaces chunks instead of accumulating them
	count, _ := chunks.CountChunks()
	assert.Equal(t, 3, count)
}

func TestReindexAll_UnavailableEmbedding(t *testing.T) {
	svc, _, _ := newTestService(false)
	_, err := svc.ReindexAll(context.Background())
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	svc, _, _ := newTestService(true)
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, &models.Entry{
		EntryType:    models.EntryTypeEmotionLog,
		TriggerEvent: models.TriggerEvent{Summary: "Feeling overwhelmed today"},
	})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, &models.Entry{
		EntryType:    models.EntryTypeHobbySport,
		TriggerEvent: models.TriggerEvent{Summary: "Morning run by the river"},
	})
	require.NoError(t, err)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.EntriesByType[models.EntryTypeEmotionLog])
	assert.Equal(t, 1, stats.EntriesByType[models.EntryTypeHobbySport])
	assert.Equal(t, 2, stats.IndexedEntries)
	assert.Equal(t, 2, stats.ChunkCount)
}

func TestImportLegacyJSONL(t *testing.T) {
	svc, entries, _ := newTestService(false)

	data := `{"entry_id": "legacy-1", "timestamp_utc": "2025-05-08T10:30:00.123456Z", "entry_type": "Emotion_Log", "primary_emotion": "Anxiety", "trigger_event": {"summary": "Exam next week"}, "tags": ["Exam"]}
not valid json
{"entry_id": "legacy-2", "timestamp_utc": "2025-05-09T08:00:00", "entry_type": "mystery_type", "trigger_event": {"summary": "Unknown type entry"}}

{"timestamp_utc": "", "entry_type": "general_note", "trigger_event": {"summary": "Missing id and timestamp"}}
`
	dir := t.TempDir()
	path := filepath.Join(dir, "my_personal_data.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	result, err := svc.ImportLegacyJSONL(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	first, err := entries.GetEntry("legacy-1")
	require.NoError(t, err)
	assert.Equal(t, models.EntryTypeEmotionLog, first.EntryType)
	assert.Equal(t, "anxiety", first.PrimaryEmotion)
	assert.Equal(t, []string{"exam"}, first.Tags)
	assert.Equal(t, 2025, first.TimestampUTC.Year())

	// Unknown entry types fall back to general_note
	second, err := entries.GetEntry("legacy-2")
	require.NoError(t, err)
	assert.Equal(t, models.EntryTypeGeneralNote, second.EntryType)

	// Entries without an ID get one assigned
	count, _ := entries.CountEntries()
	assert.Equal(t, 3, count)
}

func TestImportLegacyJSONL_MissingFile(t *testing.T) {
	svc, _, _ := newTestService(false)
	_, err := svc.ImportLegacyJSONL(context.Background(), "/nonexistent/data.jsonl")
	assert.Error(t, err)
}
