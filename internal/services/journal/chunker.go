package journal

import (
	"fmt"
	"strings"

	"github.com/mymind-ai/mymind/internal/common"
	"github.com/mymind-ai/mymind/internal/models"
)

// minChunkWords is the minimum word count for a chunk to be worth indexing.
// Shorter fragments carry too little signal for similarity search.
const minChunkWords = 4

// ExtractChunks builds the retrievable text chunks for a journal entry.
// Each aspect of the entry (what happened, how it felt, what was thought,
// what was learned) becomes its own chunk so a query can match the relevant
// aspect directly. Chunks inherit the entry's filterable metadata.
func ExtractChunks(entry *models.Entry) []*models.Chunk {
	var texts []string

	summary := strings.TrimSpace(entry.TriggerEvent.Summary)
	if summary != "" {
		texts = append(texts, fmt.Sprintf("Log about '%s' (Type: %s).", summary, entry.EntryType))
	}

	if entry.PrimaryEmotion != "" {
		subject := summary
		if subject == "" {
			subject = "this event"
		}
		texts = append(texts, fmt.Sprintf("Felt primarily %s regarding '%s'.", entry.PrimaryEmotion, subject))
	}

	if len(entry.ThoughtsDuring) > 0 {
		texts = append(texts, "My thoughts were: "+strings.Join(entry.ThoughtsDuring, ". "))
	}

	if len(entry.Reflection.InsightsGained) > 0 {
		texts = append(texts, "Key learnings included: "+strings.Join(entry.Reflection.InsightsGained, ". "))
	}

	chunks := make([]*models.Chunk, 0, len(texts))
	for _, text := range texts {
		if len(strings.Fields(text)) < minChunkWords {
			continue
		}
		chunks = append(chunks, &models.Chunk{
			ID:             common.NewChunkID(),
			EntryID:        entry.ID,
			Text:           text,
			EntryType:      entry.EntryType,
			PrimaryEmotion: entry.PrimaryEmotion,
			Tags:           entry.Tags,
			TimestampUTC:   entry.TimestampUTC,
			CreatedAt:      common.NowUTC(),
		})
	}

	return chunks
}
