package tasks

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/models"
)

// fakeTaskStore is an in-memory TaskStorage
type fakeTaskStore struct {
	tasks map[string]*models.Task
	order []string
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]*models.Task)}
}

func (f *fakeTaskStore) SaveTask(task *models.Task) error {
	if _, exists := f.tasks[task.ID]; !exists {
		f.order = append(f.order, task.ID)
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) GetTask(id string) (*models.Task, error) {
	if t, ok := f.tasks[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, fmt.Errorf("task not found: %s", id)
}

func (f *fakeTaskStore) ListTasks() ([]*models.Task, error) {
	out := make([]*models.Task, 0, len(f.order))
	for _, id := range f.order {
		copied := *f.tasks[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTaskStore) DeleteTask(id string) error {
	delete(f.tasks, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func newTestService() (*Service, *fakeTaskStore) {
	store := newFakeTaskStore()
	return NewService(store, arbor.NewLogger()), store
}

func strPtr(s string) *string { return &s }

func TestAddTask_Defaults(t *testing.T) {
	svc, _ := newTestService()

	task, err := svc.AddTask(&AddTaskRequest{Title: "write report"})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Contains(t, task.ID, "task_")
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Nil(t, task.DueAtUTC)
	assert.Empty(t, task.ReminderAtUTC)
	assert.False(t, task.CreatedAtUTC.IsZero())
}

func TestAddTask_ReminderComputedFromDueDate(t *testing.T) {
	svc, _ := newTestService()

	due := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	task, err := svc.AddTask(&AddTaskRequest{
		Title:                 "submit assignment",
		DueAtUTC:              &due,
		Priority:              models.TaskPriorityHigh,
		ReminderMinutesBefore: 30,
	})
	require.NoError(t, err)

	require.NotNil(t, task.DueAtUTC)
	assert.Equal(t, due, *task.DueAtUTC)
	require.Len(t, task.ReminderAtUTC, 1)
	assert.Equal(t, due.Add(-30*time.Minute), task.ReminderAtUTC[0])
}

func TestAddTask_NoReminderWithoutDueDate(t *testing.T) {
	svc, _ := newTestService()

	task, err := svc.AddTask(&AddTaskRequest{
		Title:                 "someday",
		ReminderMinutesBefore: 30,
	})
	require.NoError(t, err)
	assert.Empty(t, task.ReminderAtUTC)
}

func TestAddTask_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddTask(&AddTaskRequest{})
	assert.Error(t, err)

	_, err = svc.AddTask(&AddTaskRequest{Title: "x", Status: "paused"})
	assert.Error(t, err)

	_, err = svc.AddTask(&AddTaskRequest{Title: "x", Priority: "urgent"})
	assert.Error(t, err)
}

func TestUpdateTask(t *testing.T) {
	svc, _ := newTestService()

	task, err := svc.AddTask(&AddTaskRequest{Title: "original"})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(task.ID, &TaskUpdate{
		Title:    strPtr("renamed"),
		Status:   strPtr(models.TaskStatusInProgress),
		Priority: strPtr(models.TaskPriorityHigh),
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, models.TaskStatusInProgress, updated.Status)
	assert.Equal(t, models.TaskPriorityHigh, updated.Priority)

	stored, err := svc.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Title)
}

func TestUpdateTask_InvalidValuesRejected(t *testing.T) {
	svc, _ := newTestService()

	task, err := svc.AddTask(&AddTaskRequest{Title: "x"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(task.ID, &TaskUpdate{Status: strPtr("archived")})
	assert.Error(t, err)

	_, err = svc.UpdateTask(task.ID, &TaskUpdate{Title: strPtr("")})
	assert.Error(t, err)

	_, err = svc.UpdateTask("task_missing", &TaskUpdate{Title: strPtr("y")})
	assert.Error(t, err)
}

func TestUpdateTask_ClearDueDate(t *testing.T) {
	svc, _ := newTestService()

	due := time.Now().UTC().Add(time.Hour)
	task, err := svc.AddTask(&AddTaskRequest{Title: "x", DueAtUTC: &due})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(task.ID, &TaskUpdate{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueAtUTC)
}

func TestDeleteTask(t *testing.T) {
	svc, _ := newTestService()

	task, err := svc.AddTask(&AddTaskRequest{Title: "temp"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(task.ID))

	_, err = svc.GetTask(task.ID)
	assert.Error(t, err)
}

func TestPendingTasks_SortedByDueDate(t *testing.T) {
	svc, _ := newTestService()

	later := time.Now().UTC().Add(2 * time.Hour)
	sooner := time.Now().UTC().Add(time.Hour)

	_, err := svc.AddTask(&AddTaskRequest{Title: "no due date"})
	require.NoError(t, err)
	_, err = svc.AddTask(&AddTaskRequest{Title: "later", DueAtUTC: &later})
	require.NoError(t, err)
	_, err = svc.AddTask(&AddTaskRequest{Title: "sooner", DueAtUTC: &sooner})
	require.NoError(t, err)

	done, err := svc.AddTask(&AddTaskRequest{Title: "done"})
	require.NoError(t, err)
	_, err = svc.UpdateTask(done.ID, &TaskUpdate{Status: strPtr(models.TaskStatusCompleted)})
	require.NoError(t, err)

	pending, err := svc.PendingTasks()
	require.NoError(t, err)

	require.Len(t, pending, 3)
	assert.Equal(t, "sooner", pending[0].Title)
	assert.Equal(t, "later", pending[1].Title)
	assert.Equal(t, "no due date", pending[2].Title)
}

func TestTasksNeedingAttention_Due(t *testing.T) {
	svc, _ := newTestService()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	overdue, err := svc.AddTask(&AddTaskRequest{Title: "overdue", DueAtUTC: &past})
	require.NoError(t, err)
	_, err = svc.AddTask(&AddTaskRequest{Title: "not yet", DueAtUTC: &future})
	require.NoError(t, err)

	notifications, err := svc.TasksNeedingAttention(now)
	require.NoError(t, err)

	require.Len(t, notifications, 1)
	assert.Equal(t, overdue.ID, notifications[0].Task.ID)
	assert.Equal(t, models.NotifyReasonDue, notifications[0].Reason)

	// Due tasks keep notifying on every sweep while still actionable
	again, err := svc.TasksNeedingAttention(now.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, again, 1)
}

func TestTasksNeedingAttention_ReminderFiresOnce(t *testing.T) {
	svc, _ := newTestService()
	now := time.Now().UTC()

	due := now.Add(20 * time.Minute)
	task, err := svc.AddTask(&AddTaskRequest{
		Title:                 "with reminder",
		DueAtUTC:              &due,
		ReminderMinutesBefore: 30,
	})
	require.NoError(t, err)

	// The reminder slot (due - 30m) is already in the past
	notifications, err := svc.TasksNeedingAttention(now)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotifyReasonReminder, notifications[0].Reason)
	require.NotNil(t, notifications[0].ReminderAt)
	assert.Equal(t, due.Add(-30*time.Minute), *notifications[0].ReminderAt)

	require.NoError(t, svc.MarkReminded(task.ID, now))

	// The same reminder slot does not fire again
	notifications, err = svc.TasksNeedingAttention(now.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestTasksNeedingAttention_ReminderOverridesDue(t *testing.T) {
	svc, _ := newTestService()
	now := time.Now().UTC()

	due := now.Add(-10 * time.Minute)
	_, err := svc.AddTask(&AddTaskRequest{
		Title:                 "due with reminder",
		DueAtUTC:              &due,
		ReminderMinutesBefore: 30,
	})
	require.NoError(t, err)

	notifications, err := svc.TasksNeedingAttention(now)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotifyReasonReminder, notifications[0].Reason)
}

func TestTasksNeedingAttention_CompletedTasksIgnored(t *testing.T) {
	svc, _ := newTestService()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	task, err := svc.AddTask(&AddTaskRequest{Title: "was due", DueAtUTC: &past})
	require.NoError(t, err)
	_, err = svc.UpdateTask(task.ID, &TaskUpdate{Status: strPtr(models.TaskStatusCompleted)})
	require.NoError(t, err)

	notifications, err := svc.TasksNeedingAttention(now)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
