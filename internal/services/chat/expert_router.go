package chat

import (
	"strings"

	"github.com/mymind-ai/mymind/internal/models"
)

// Expert identifiers. Each expert carries its own system prompt and an
// optional retrieval filter over entry types.
const (
	ExpertAcademicAdvisor       = "academic_advisor_expert"
	ExpertRelationshipCounselor = "relationship_counselor_expert"
	ExpertEmotionReflection     = "emotion_reflection_expert"
	ExpertProblemSolving        = "problem_solving_expert"
	ExpertLeisureActivity       = "leisure_activity_expert"
	ExpertGeneralAssistant      = "general_assistant"
)

// Experts lists all known expert identifiers.
var Experts = []string{
	ExpertAcademicAdvisor,
	ExpertRelationshipCounselor,
	ExpertEmotionReflection,
	ExpertProblemSolving,
	ExpertLeisureActivity,
	ExpertGeneralAssistant,
}

// IsValidExpert reports whether e names a known expert.
func IsValidExpert(e string) bool {
	for _, known := range Experts {
		if e == known {
			return true
		}
	}
	return false
}

// expertKeywords maps experts to trigger keywords, checked in order so the
// more specific experts win.
var expertKeywords = []struct {
	expert   string
	keywords []string
}{
	{ExpertAcademicAdvisor, []string{"academic", "study", "studies", "exam", "marks", "remedial", "os subject", "subject"}},
	{ExpertRelationshipCounselor, []string{"girlfriend", "relationship", "conflict with", "argument with"}},
	{ExpertEmotionReflection, []string{"feel", "feeling", "emotion", "sad", "happy", "anxious", "stressed", "joyful", "disappointed"}},
	{ExpertProblemSolving, []string{"problem", "solve", "issue", "task", "how to", "strategy", "difficult", "time management", "balance"}},
	{ExpertLeisureActivity, []string{"trip", "travel", "friends", "flatmates", "waterpark", "cricket", "hobby", "sport"}},
}

// RouteToExpert determines which expert should handle the query based on
// keyword matching. More specific experts are checked first; queries that
// match nothing go to the general assistant.
func RouteToExpert(query string) string {
	queryLower := strings.ToLower(query)

	for _, candidate := range expertKeywords {
		for _, keyword := range candidate.keywords {
			if strings.Contains(queryLower, keyword) {
				return candidate.expert
			}
		}
	}

	return ExpertGeneralAssistant
}

// RetrievalEntryTypes returns the entry types an expert restricts retrieval
// to. An empty slice means the expert searches across all entry types.
func RetrievalEntryTypes(expert string) []string {
	switch expert {
	case ExpertEmotionReflection:
		return []string{models.EntryTypeEmotionLog}
	case ExpertAcademicAdvisor:
		return []string{models.EntryTypeAcademicSetback}
	case ExpertRelationshipCounselor:
		return []string{models.EntryTypeInterpersonalConflict}
	case ExpertLeisureActivity:
		return []string{
			models.EntryTypeSocialEventTravel,
			models.EntryTypeRecreationalActivity,
			models.EntryTypeHobbySport,
		}
	default:
		// Problem solving and the general assistant search everything
		return nil
	}
}
