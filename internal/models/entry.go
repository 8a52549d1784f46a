package models

import (
	"strings"
	"time"
)

// Entry types recognized by the journal. The type drives both retrieval
// filtering and expert routing, so values are always stored lowercased.
const (
	EntryTypeEmotionLog            = "emotion_log"
	EntryTypeInterpersonalConflict = "interpersonal_conflict"
	EntryTypeAcademicSetback       = "academic_setback"
	EntryTypeProblemSolving        = "problem_solving"
	EntryTypeSocialEventTravel     = "social_event_travel"
	EntryTypeRecreationalActivity  = "recreational_activity"
	EntryTypeHobbySport            = "hobby_sport"
	EntryTypeGeneralNote           = "general_note"
)

// EntryTypes lists all valid entry types in display order.
var EntryTypes = []string{
	EntryTypeEmotionLog,
	EntryTypeInterpersonalConflict,
	EntryTypeAcademicSetback,
	EntryTypeProblemSolving,
	EntryTypeSocialEventTravel,
	EntryTypeRecreationalActivity,
	EntryTypeHobbySport,
	EntryTypeGeneralNote,
}

// IsValidEntryType reports whether t is one of the known entry types.
func IsValidEntryType(t string) bool {
	for _, known := range EntryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// TriggerEvent describes what prompted a journal entry.
type TriggerEvent struct {
	Summary string `json:"summary" validate:"required"`
	Type    string `json:"type,omitempty"`
}

// Reflection holds what the user took away from an experience.
type Reflection struct {
	InsightsGained []string `json:"insights_gained,omitempty"`
}

// Entry is a single journal log entry. The JSON encoding is compatible with
// the legacy JSONL data file, so old data imports without transformation.
type Entry struct {
	// Identity
	ID           string    `json:"entry_id" badgerhold:"key"`
	TimestampUTC time.Time `json:"timestamp_utc"`

	// Classification (stored lowercased)
	EntryType      string `json:"entry_type" validate:"oneof=emotion_log interpersonal_conflict academic_setback problem_solving social_event_travel recreational_activity hobby_sport general_note"`
	PrimaryEmotion string `json:"primary_emotion,omitempty"`

	// Content
	TriggerEvent   TriggerEvent `json:"trigger_event"`
	ThoughtsDuring []string     `json:"my_thoughts_during,omitempty"`
	Reflection     Reflection   `json:"reflection_learnings,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	Intensity      int          `json:"intensity_level,omitempty" validate:"min=0,max=10"` // 1-10, 0 = not set

	// Index tracking
	IndexedAt *time.Time `json:"indexed_at,omitempty"` // When chunks were last embedded
}

// Normalize lowercases the classification fields so retrieval filters match
// regardless of how the entry was captured.
func (e *Entry) Normalize() {
	e.EntryType = strings.ToLower(strings.TrimSpace(e.EntryType))
	e.PrimaryEmotion = strings.ToLower(strings.TrimSpace(e.PrimaryEmotion))
	for i, tag := range e.Tags {
		e.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}
}

// HasTag reports whether the entry carries the given (lowercased) tag.
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// EntryStats summarizes the journal contents.
type EntryStats struct {
	TotalEntries   int            `json:"total_entries"`
	EntriesByType  map[string]int `json:"entries_by_type"`
	IndexedEntries int            `json:"indexed_entries"`
	ChunkCount     int            `json:"chunk_count"`
	LastUpdated    time.Time      `json:"last_updated"`
}
