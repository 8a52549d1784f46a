package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
	"github.com/mymind-ai/mymind/internal/services/journal"
	"github.com/mymind-ai/mymind/internal/services/scheduler"
	"github.com/mymind-ai/mymind/internal/services/tasks"
)

// fakeEntryStore is an in-memory EntryStorage
type fakeEntryStore struct {
	entries map[string]*models.Entry
	order   []string
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[string]*models.Entry)}
}

func (f *fakeEntryStore) SaveEntry(entry *models.Entry) error {
	if _, exists := f.entries[entry.ID]; !exists {
		f.order = append(f.order, entry.ID)
	}
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeEntryStore) GetEntry(id string) (*models.Entry, error) {
	if e, ok := f.entries[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("entry not found: %s", id)
}

func (f *fakeEntryStore) ListEntries(opts *interfaces.EntryListOptions) ([]*models.Entry, error) {
	var out []*models.Entry
	for _, id := range f.order {
		e := f.entries[id]
		if opts != nil && opts.EntryType != "" && e.EntryType != opts.EntryType {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEntryStore) RecentEntries(limit int) ([]*models.Entry, error) {
	return f.ListEntries(nil)
}

func (f *fakeEntryStore) CountEntries() (int, error) { return len(f.entries), nil }

func (f *fakeEntryStore) CountEntriesByType(entryType string) (int, error) {
	n := 0
	for _, e := range f.entries {
		if e.EntryType == entryType {
			n++
		}
	}
	return n, nil
}

func (f *fakeEntryStore) DeleteEntry(id string) error {
	delete(f.entries, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// fakeChunkStore is an in-memory ChunkStorage
type fakeChunkStore struct {
	chunks []*models.Chunk
}

func (f *fakeChunkStore) SaveChunks(chunks []*models.Chunk) error {
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeChunkStore) DeleteChunksForEntry(entryID string) error {
	kept := f.chunks[:0]
	for _, c := range f.chunks {
		if c.EntryID != entryID {
			kept = append(kept, c)
		}
	}
	f.chunks = kept
	return nil
}

func (f *fakeChunkStore) ListChunks(filter *models.ChunkFilter) ([]*models.Chunk, error) {
	return f.chunks, nil
}

func (f *fakeChunkStore) CountChunks() (int, error) { return len(f.chunks), nil }

// offlineEmbedder reports unavailable so entries save without indexing
type offlineEmbedder struct{}

func (offlineEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding unavailable")
}

func (o offlineEmbedder) EmbedChunk(ctx context.Context, chunk *models.Chunk) error {
	return fmt.Errorf("embedding unavailable")
}

func (o offlineEmbedder) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, fmt.Errorf("embedding unavailable")
}

func (offlineEmbedder) ModelName() string                    { return "" }
func (offlineEmbedder) Dimension() int                       { return 0 }
func (offlineEmbedder) IsAvailable(ctx context.Context) bool { return false }

// fakeTaskStore is an in-memory TaskStorage
type fakeTaskStore struct {
	tasks map[string]*models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]*models.Task)}
}

func (f *fakeTaskStore) SaveTask(task *models.Task) error {
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskStore) GetTask(id string) (*models.Task, error) {
	if t, ok := f.tasks[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("task not found: %s", id)
}

func (f *fakeTaskStore) ListTasks() ([]*models.Task, error) {
	out := make([]*models.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskStore) DeleteTask(id string) error {
	delete(f.tasks, id)
	return nil
}

// stubChatService returns a canned response
type stubChatService struct {
	err error
}

func (s *stubChatService) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &interfaces.ChatResponse{
		Message: "canned reply",
		Expert:  "general_assistant",
		Model:   "stub",
		Mode:    interfaces.LLMModeCloud,
	}, nil
}

func (s *stubChatService) GetMode() interfaces.LLMMode { return interfaces.LLMModeCloud }

func (s *stubChatService) HealthCheck(ctx context.Context) error { return s.err }

func newEntryHandler() *EntryHandler {
	svc := journal.NewService(newFakeEntryStore(), &fakeChunkStore{}, offlineEmbedder{}, nil, arbor.NewLogger())
	return NewEntryHandler(svc, arbor.NewLogger())
}

func TestHealthHandler(t *testing.T) {
	h := NewAPIHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.HealthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	h := NewAPIHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.HealthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVersionHandler(t *testing.T) {
	h := NewAPIHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	h.VersionHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "build")
}

func TestEntriesHandler_AddAndGet(t *testing.T) {
	h := newEntryHandler()

	payload := `{
		"entry_type": "Emotion_Log",
		"primary_emotion": "Anxious",
		"trigger_event": {"summary": "exam results day"},
		"intensity_level": 7
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/entries", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	h.EntriesHandler(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "emotion_log", created.EntryType)
	assert.Equal(t, "anxious", created.PrimaryEmotion)

	req = httptest.NewRequest(http.MethodGet, "/api/entries/"+created.ID, nil)
	rec = httptest.NewRecorder()
	h.EntryByIDHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.ID)
}

func TestEntriesHandler_InvalidBody(t *testing.T) {
	h := newEntryHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/entries", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.EntriesHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEntriesHandler_ValidationError(t *testing.T) {
	h := newEntryHandler()

	// Intensity outside 1-10 is rejected
	payload := `{"trigger_event": {"summary": "x"}, "intensity_level": 99}`
	req := httptest.NewRequest(http.MethodPost, "/api/entries", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	h.EntriesHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEntriesHandler_List(t *testing.T) {
	h := newEntryHandler()

	for _, summary := range []string{"first", "second"} {
		payload := fmt.Sprintf(`{"entry_type": "general_note", "trigger_event": {"summary": "%s"}}`, summary)
		req := httptest.NewRequest(http.MethodPost, "/api/entries", bytes.NewBufferString(payload))
		rec := httptest.NewRecorder()
		h.EntriesHandler(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/entries?type=general_note", nil)
	rec := httptest.NewRecorder()
	h.EntriesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Entries []*models.Entry `json:"entries"`
		Count   int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}

func TestEntryByIDHandler_DeleteAndNotFound(t *testing.T) {
	h := newEntryHandler()

	payload := `{"trigger_event": {"summary": "to be removed"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/entries", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	h.EntriesHandler(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodDelete, "/api/entries/"+created.ID, nil)
	rec = httptest.NewRecorder()
	h.EntryByIDHandler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/entries/"+created.ID, nil)
	rec = httptest.NewRecorder()
	h.EntryByIDHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsHandler(t *testing.T) {
	h := newEntryHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/entries/stats", nil)
	rec := httptest.NewRecorder()
	h.StatsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_entries")
}

func TestReindexHandler_UnavailableEmbedding(t *testing.T) {
	h := newEntryHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/entries/reindex", nil)
	rec := httptest.NewRecorder()
	h.ReindexHandler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTasksHandler_AddListDelete(t *testing.T) {
	svc := tasks.NewService(newFakeTaskStore(), arbor.NewLogger())
	h := NewTaskHandler(svc, arbor.NewLogger())

	payload := `{"title": "write report", "priority": "high"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	h.TasksHandler(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "high", created.Priority)

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec = httptest.NewRecorder()
	h.TasksHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.ID)

	req = httptest.NewRequest(http.MethodDelete, "/api/tasks/"+created.ID, nil)
	rec = httptest.NewRecorder()
	h.TaskByIDHandler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTasksHandler_ValidationError(t *testing.T) {
	svc := tasks.NewService(newFakeTaskStore(), arbor.NewLogger())
	h := NewTaskHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{"title": ""}`))
	rec := httptest.NewRecorder()
	h.TasksHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskByIDHandler_Update(t *testing.T) {
	svc := tasks.NewService(newFakeTaskStore(), arbor.NewLogger())
	h := NewTaskHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{"title": "x"}`))
	rec := httptest.NewRecorder()
	h.TasksHandler(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	update := `{"status": "completed"}`
	req = httptest.NewRequest(http.MethodPut, "/api/tasks/"+created.ID, bytes.NewBufferString(update))
	rec = httptest.NewRecorder()
	h.TaskByIDHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "completed")
}

func TestDueTasksHandler(t *testing.T) {
	svc := tasks.NewService(newFakeTaskStore(), arbor.NewLogger())
	h := NewTaskHandler(svc, arbor.NewLogger())

	due := time.Now().UTC().Add(-time.Hour)
	created, err := svc.AddTask(&tasks.AddTaskRequest{Title: "overdue report", DueAtUTC: &due})
	require.NoError(t, err)

	// Register as in the route table so "due" is not mistaken for a task ID
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks/due", h.DueTasksHandler)
	mux.HandleFunc("/api/tasks/", h.TaskByIDHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/due", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Notifications []*models.TaskNotification `json:"notifications"`
		Count         int                        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, created.ID, body.Notifications[0].Task.ID)
	assert.Equal(t, models.NotifyReasonDue, body.Notifications[0].Reason)
}

func TestDueTasksHandler_Empty(t *testing.T) {
	svc := tasks.NewService(newFakeTaskStore(), arbor.NewLogger())
	h := NewTaskHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/due", nil)
	rec := httptest.NewRecorder()
	h.DueTasksHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestChatHandler(t *testing.T) {
	h := NewChatHandler(&stubChatService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message": "hello"}`))
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "canned reply")
	assert.Contains(t, rec.Body.String(), "general_assistant")
}

func TestChatHandler_EmptyMessage(t *testing.T) {
	h := NewChatHandler(&stubChatService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message": ""}`))
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandler_ServiceError(t *testing.T) {
	h := NewChatHandler(&stubChatService{err: fmt.Errorf("provider down")}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message": "hi"}`))
	rec := httptest.NewRecorder()
	h.ChatHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSchedulerHandler(t *testing.T) {
	svc := scheduler.NewService(arbor.NewLogger())
	require.NoError(t, svc.RegisterJob("sweep", "* * * * *", "test", func() error { return nil }))

	h := NewSchedulerHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/scheduler/jobs", nil)
	rec := httptest.NewRecorder()
	h.JobsHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sweep")

	req = httptest.NewRequest(http.MethodPost, "/api/scheduler/jobs/sweep/disable", nil)
	rec = httptest.NewRecorder()
	h.JobActionHandler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/scheduler/jobs/missing/trigger", nil)
	rec = httptest.NewRecorder()
	h.JobActionHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/scheduler/jobs/sweep/unknown", nil)
	rec = httptest.NewRecorder()
	h.JobActionHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
