package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/common"
	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
	"github.com/mymind-ai/mymind/internal/services/journal"
)

const contextSeparator = "\n\n---\n\n"

// Service implements ChatService: expert routing, retrieval-grounded
// context assembly and completion against the configured provider.
type Service struct {
	llm       interfaces.LLMService
	retriever *journal.Retriever
	entries   interfaces.EntryStorage
	config    *common.ChatConfig
	modelName string
	logger    arbor.ILogger
}

// NewService creates a chat service
func NewService(
	llm interfaces.LLMService,
	retriever *journal.Retriever,
	entries interfaces.EntryStorage,
	config *common.ChatConfig,
	modelName string,
	logger arbor.ILogger,
) interfaces.ChatService {
	return &Service{
		llm:       llm,
		retriever: retriever,
		entries:   entries,
		config:    config,
		modelName: modelName,
		logger:    logger,
	}
}

// Chat answers a user message grounded in their own journal. The expert is
// chosen by keyword routing unless the request names one explicitly. When
// retrieval is unavailable or finds nothing, recent entries are summarized
// as fallback context so the assistant still knows something about the user.
func (s *Service) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message is required")
	}
	if s.llm.GetMode() == interfaces.LLMModeDisabled {
		return nil, fmt.Errorf("chat is unavailable: no LLM provider configured")
	}

	expert := req.Expert
	if expert == "" {
		expert = RouteToExpert(req.Message)
	} else if !IsValidExpert(expert) {
		return nil, fmt.Errorf("unknown expert: %s", expert)
	}

	ragEnabled := s.config.RAGEnabled
	maxChunks := s.config.MaxContextEntries
	var extraFilter *models.ChunkFilter
	if req.RAGConfig != nil {
		if req.RAGConfig.Enabled != nil {
			ragEnabled = *req.RAGConfig.Enabled
		}
		if req.RAGConfig.MaxChunks > 0 {
			maxChunks = req.RAGConfig.MaxChunks
		}
		extraFilter = &models.ChunkFilter{
			EntryType:      strings.ToLower(req.RAGConfig.EntryType),
			PrimaryEmotion: strings.ToLower(req.RAGConfig.PrimaryEmotion),
			Tag:            strings.ToLower(req.RAGConfig.Tag),
		}
	}

	var contextChunks []string
	usedFallback := false

	if ragEnabled && s.retriever.IsAvailable(ctx) {
		scored, err := s.retrieve(ctx, req.Message, expert, maxChunks, extraFilter)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Retrieval failed, falling back to recent entries")
		} else {
			for _, sc := range scored {
				contextChunks = append(contextChunks, sc.Chunk.Text)
			}
		}
	}

	contextString := strings.Join(contextChunks, contextSeparator)
	if contextString == "" {
		contextString = s.fallbackContext()
		usedFallback = true
	}

	messages := s.buildMessages(expert, contextString, req)

	response, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	s.logger.Info().
		Str("expert", expert).
		Int("context_chunks", len(contextChunks)).
		Bool("fallback_context", usedFallback).
		Msg("Chat completed")

	return &interfaces.ChatResponse{
		Message:             response,
		Expert:              expert,
		ContextChunks:       contextChunks,
		UsedFallbackContext: usedFallback,
		Model:               s.modelName,
		Mode:                s.llm.GetMode(),
	}, nil
}

// retrieve runs the similarity query for each entry type the expert covers
// and merges the results by score. Experts without a type restriction run a
// single unfiltered query.
func (s *Service) retrieve(ctx context.Context, query, expert string, n int, extra *models.ChunkFilter) ([]*models.ScoredChunk, error) {
	entryTypes := RetrievalEntryTypes(expert)
	if extra != nil && extra.EntryType != "" {
		// An explicit request filter overrides the expert's default scope
		entryTypes = []string{extra.EntryType}
	}

	buildFilter := func(entryType string) *models.ChunkFilter {
		filter := &models.ChunkFilter{EntryType: entryType}
		if extra != nil {
			filter.PrimaryEmotion = extra.PrimaryEmotion
			filter.Tag = extra.Tag
		}
		return filter
	}

	if len(entryTypes) == 0 {
		return s.retriever.Query(ctx, query, n, buildFilter(""))
	}

	var merged []*models.ScoredChunk
	seen := make(map[string]bool)
	for _, entryType := range entryTypes {
		scored, err := s.retriever.Query(ctx, query, n, buildFilter(entryType))
		if err != nil {
			return nil, err
		}
		for _, sc := range scored {
			if !seen[sc.Chunk.ID] {
				seen[sc.Chunk.ID] = true
				merged = append(merged, sc)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > n {
		merged = merged[:n]
	}
	return merged, nil
}

// fallbackContext summarizes the most recent entries when retrieval is
// unavailable or returned nothing.
func (s *Service) fallbackContext() string {
	entries, err := s.entries.RecentEntries(s.config.MaxContextEntries)
	if err != nil || len(entries) == 0 {
		return "No journal entries are available yet."
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		emotion := e.PrimaryEmotion
		if emotion == "" {
			emotion = "N/A"
		}
		summary := e.TriggerEvent.Summary
		if summary == "" {
			summary = "N/A"
		}
		lines = append(lines, fmt.Sprintf(
			"Entry ID: %s, Type: %s, Emotion: %s, Summary: %s, Learnings: %s",
			e.ID, e.EntryType, emotion, summary,
			strings.Join(e.Reflection.InsightsGained, ". "),
		))
	}
	return strings.Join(lines, contextSeparator)
}

// buildMessages assembles the conversation: system prompt, bounded history,
// then the current user message.
func (s *Service) buildMessages(expert, contextString string, req *interfaces.ChatRequest) []interfaces.Message {
	messages := []interfaces.Message{
		{Role: "system", Content: BuildSystemPrompt(expert, contextString)},
	}

	history := req.History
	if s.config.HistoryLimit > 0 && len(history) > s.config.HistoryLimit {
		history = history[len(history)-s.config.HistoryLimit:]
	}
	messages = append(messages, history...)

	messages = append(messages, interfaces.Message{Role: "user", Content: req.Message})
	return messages
}

// GetMode returns the current LLM mode
func (s *Service) GetMode() interfaces.LLMMode {
	return s.llm.GetMode()
}

// HealthCheck verifies the chat service is operational
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.llm.HealthCheck(ctx)
}
