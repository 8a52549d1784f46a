package interfaces

import (
	"github.com/mymind-ai/mymind/internal/models"
)

// EntryListOptions controls entry listing
type EntryListOptions struct {
	EntryType string
	Limit     int
	Offset    int
}

// EntryStorage persists journal entries
type EntryStorage interface {
	SaveEntry(entry *models.Entry) error
	GetEntry(id string) (*models.Entry, error)
	ListEntries(opts *EntryListOptions) ([]*models.Entry, error)
	RecentEntries(limit int) ([]*models.Entry, error)
	CountEntries() (int, error)
	CountEntriesByType(entryType string) (int, error)
	DeleteEntry(id string) error
}

// ChunkStorage persists embedded chunks for retrieval
type ChunkStorage interface {
	SaveChunks(chunks []*models.Chunk) error
	DeleteChunksForEntry(entryID string) error
	ListChunks(filter *models.ChunkFilter) ([]*models.Chunk, error)
	CountChunks() (int, error)
}

// TaskStorage persists tasks
type TaskStorage interface {
	SaveTask(task *models.Task) error
	GetTask(id string) (*models.Task, error)
	ListTasks() ([]*models.Task, error)
	DeleteTask(id string) error
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	EntryStorage() EntryStorage
	ChunkStorage() ChunkStorage
	TaskStorage() TaskStorage
	Close() error
}
