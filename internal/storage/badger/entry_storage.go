package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
)

// EntryStorage implements the EntryStorage interface for Badger
type EntryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEntryStorage creates a new EntryStorage instance
func NewEntryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.EntryStorage {
	return &EntryStorage{
		db:     db,
		logger: logger,
	}
}

func (s *EntryStorage) SaveEntry(entry *models.Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("entry ID is required")
	}

	if err := s.db.Store().Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

func (s *EntryStorage) GetEntry(id string) (*models.Entry, error) {
	var entry models.Entry
	if err := s.db.Store().Get(id, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("entry not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return &entry, nil
}

func (s *EntryStorage) ListEntries(opts *interfaces.EntryListOptions) ([]*models.Entry, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("TimestampUTC").Reverse()

	if opts != nil {
		if opts.EntryType != "" {
			query = query.And("EntryType").Eq(opts.EntryType)
		}
		if opts.Offset > 0 {
			query = query.Skip(opts.Offset)
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
	}

	var entries []models.Entry
	if err := s.db.Store().Find(&entries, query); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	result := make([]*models.Entry, len(entries))
	for i := range entries {
		result[i] = &entries[i]
	}
	return result, nil
}

func (s *EntryStorage) RecentEntries(limit int) ([]*models.Entry, error) {
	return s.ListEntries(&interfaces.EntryListOptions{Limit: limit})
}

func (s *EntryStorage) CountEntries() (int, error) {
	count, err := s.db.Store().Count(&models.Entry{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return int(count), nil
}

func (s *EntryStorage) CountEntriesByType(entryType string) (int, error) {
	count, err := s.db.Store().Count(&models.Entry{}, badgerhold.Where("EntryType").Eq(entryType))
	if err != nil {
		return 0, fmt.Errorf("failed to count entries by type: %w", err)
	}
	return int(count), nil
}

func (s *EntryStorage) DeleteEntry(id string) error {
	if err := s.db.Store().Delete(id, &models.Entry{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}
