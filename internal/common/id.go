package common

import (
	"github.com/google/uuid"
)

// NewEntryID generates a unique journal entry ID with the "entry_" prefix
// Format: entry_<uuid>
func NewEntryID() string {
	return "entry_" + uuid.New().String()
}

// NewTaskID generates a unique task ID with the "task_" prefix
func NewTaskID() string {
	return "task_" + uuid.New().String()
}

// NewChunkID generates a unique chunk ID with the "chunk_" prefix
func NewChunkID() string {
	return "chunk_" + uuid.New().String()
}
