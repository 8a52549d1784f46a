package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
	"github.com/mymind-ai/mymind/internal/services/journal"
)

// EntryHandler handles journal entry HTTP requests
type EntryHandler struct {
	journalService *journal.Service
	logger         arbor.ILogger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(journalService *journal.Service, logger arbor.ILogger) *EntryHandler {
	return &EntryHandler{
		journalService: journalService,
		logger:         logger,
	}
}

// EntriesHandler handles /api/entries: POST creates an entry, GET lists
// entries newest first with optional type/limit/offset query parameters.
func (h *EntryHandler) EntriesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.addEntry(w, r)
	case http.MethodGet:
		h.listEntries(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *EntryHandler) addEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode entry request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.journalService.AddEntry(r.Context(), &entry)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, saved)
}

func (h *EntryHandler) listEntries(w http.ResponseWriter, r *http.Request) {
	opts := &interfaces.EntryListOptions{
		EntryType: strings.ToLower(r.URL.Query().Get("type")),
		Limit:     QueryInt(r, "limit", 0),
		Offset:    QueryInt(r, "offset", 0),
	}

	entries, err := h.journalService.ListEntries(opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list entries")
		WriteError(w, http.StatusInternalServerError, "Failed to list entries")
		return
	}
	if entries == nil {
		entries = []*models.Entry{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// EntryByIDHandler handles /api/entries/{id}: GET retrieves, DELETE removes
// the entry along with its indexed chunks.
func (h *EntryHandler) EntryByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/entries/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := h.journalService.GetEntry(id)
		if err != nil {
			WriteError(w, http.StatusNotFound, "Entry not found")
			return
		}
		WriteJSON(w, http.StatusOK, entry)
	case http.MethodDelete:
		if err := h.journalService.DeleteEntry(id); err != nil {
			WriteError(w, http.StatusNotFound, "Entry not found")
			return
		}
		WriteSuccess(w, "Entry deleted")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// StatsHandler handles GET /api/entries/stats
func (h *EntryHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.journalService.Stats()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute entry stats")
		WriteError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// ReindexHandler handles POST /api/entries/reindex: rebuilds every entry's
// chunks and embeddings.
func (h *EntryHandler) ReindexHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	result, err := h.journalService.ReindexAll(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Reindex failed")
		WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
