package tasks

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/common"
	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
)

// Service manages tasks: CRUD, due-date reminders and the sweep that
// decides which tasks need a notification.
type Service struct {
	storage interfaces.TaskStorage
	logger  arbor.ILogger
}

// NewService creates a task service
func NewService(storage interfaces.TaskStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// AddTaskRequest carries the fields accepted when creating a task.
type AddTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueAtUTC    *time.Time `json:"due_at_utc,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status,omitempty"`
	ProjectTags []string   `json:"project_tags,omitempty"`

	// ReminderMinutesBefore schedules a single reminder that many minutes
	// before the due date. Ignored when no due date is set.
	ReminderMinutesBefore int `json:"reminder_minutes_before,omitempty"`
}

// AddTask creates and persists a new task. The reminder time, if requested,
// is computed from the due date at creation time and stored as an absolute
// UTC timestamp.
func (s *Service) AddTask(req *AddTaskRequest) (*models.Task, error) {
	if req == nil {
		return nil, fmt.Errorf("task request is required")
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		ID:           common.NewTaskID(),
		Title:        req.Title,
		Description:  req.Description,
		CreatedAtUTC: common.NowUTC(),
		Status:       status,
		Priority:     priority,
		ProjectTags:  req.ProjectTags,
	}

	if req.DueAtUTC != nil {
		due := req.DueAtUTC.UTC()
		task.DueAtUTC = &due
		if req.ReminderMinutesBefore > 0 {
			reminder := due.Add(-time.Duration(req.ReminderMinutesBefore) * time.Minute)
			task.ReminderAtUTC = []time.Time{reminder}
		}
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	if err := s.storage.SaveTask(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("title", task.Title).
		Str("priority", task.Priority).
		Msg("Task added")

	return task, nil
}

// GetTask retrieves a task by ID
func (s *Service) GetTask(id string) (*models.Task, error) {
	return s.storage.GetTask(id)
}

// TaskUpdate carries the mutable task fields. Nil pointers leave the
// current value unchanged.
type TaskUpdate struct {
	Title         *string     `json:"title,omitempty"`
	Description   *string     `json:"description,omitempty"`
	DueAtUTC      *time.Time  `json:"due_at_utc,omitempty"`
	ClearDueDate  bool        `json:"clear_due_date,omitempty"`
	Status        *string     `json:"status,omitempty"`
	Priority      *string     `json:"priority,omitempty"`
	ProjectTags   []string    `json:"project_tags,omitempty"`
	ReminderAtUTC []time.Time `json:"reminder_at_utc_list,omitempty"`
}

// UpdateTask applies the given changes to an existing task.
func (s *Service) UpdateTask(id string, update *TaskUpdate) (*models.Task, error) {
	task, err := s.storage.GetTask(id)
	if err != nil {
		return nil, err
	}
	if update == nil {
		return task, nil
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.ClearDueDate {
		task.DueAtUTC = nil
	} else if update.DueAtUTC != nil {
		due := update.DueAtUTC.UTC()
		task.DueAtUTC = &due
	}
	if update.ProjectTags != nil {
		task.ProjectTags = update.ProjectTags
	}
	if update.ReminderAtUTC != nil {
		reminders := make([]time.Time, len(update.ReminderAtUTC))
		for i, r := range update.ReminderAtUTC {
			reminders[i] = r.UTC()
		}
		task.ReminderAtUTC = reminders
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task update: %w", err)
	}

	if err := s.storage.SaveTask(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info().Str("task_id", id).Msg("Task updated")
	return task, nil
}

// DeleteTask removes a task by ID
func (s *Service) DeleteTask(id string) error {
	if err := s.storage.DeleteTask(id); err != nil {
		return err
	}
	s.logger.Info().Str("task_id", id).Msg("Task deleted")
	return nil
}

// ListTasks returns all tasks
func (s *Service) ListTasks() ([]*models.Task, error) {
	return s.storage.ListTasks()
}

// PendingTasks returns tasks that are not completed or cancelled, sorted by
// due date with undated tasks last.
func (s *Service) PendingTasks() ([]*models.Task, error) {
	all, err := s.storage.ListTasks()
	if err != nil {
		return nil, err
	}

	var pending []*models.Task
	for _, t := range all {
		if t.IsActionable() {
			pending = append(pending, t)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i].DueAtUTC, pending[j].DueAtUTC
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return pending, nil
}

// TasksNeedingAttention returns actionable tasks that are due or have an
// unprocessed reminder slot at the given time. A task that is both due and
// carries an unprocessed reminder is reported once, with the reminder
// reason. Due tasks keep notifying every sweep until their status changes.
func (s *Service) TasksNeedingAttention(now time.Time) ([]*models.TaskNotification, error) {
	pending, err := s.PendingTasks()
	if err != nil {
		return nil, err
	}
	now = now.UTC()

	var notifications []*models.TaskNotification
	for _, task := range pending {
		var notification *models.TaskNotification

		if task.DueAtUTC != nil && !task.DueAtUTC.After(now) {
			notification = &models.TaskNotification{
				Task:   task,
				Reason: models.NotifyReasonDue,
			}
		}

		for _, reminder := range task.ReminderAtUTC {
			if reminder.After(now) {
				continue
			}
			if task.LastRemindedAtUTC == nil || task.LastRemindedAtUTC.Before(reminder) {
				reminderAt := reminder
				notification = &models.TaskNotification{
					Task:       task,
					Reason:     models.NotifyReasonReminder,
					ReminderAt: &reminderAt,
				}
				break
			}
		}

		if notification != nil {
			notifications = append(notifications, notification)
		}
	}
	return notifications, nil
}

// MarkReminded records that a reminder notification went out for the task
// so the same reminder slot does not fire on every sweep.
func (s *Service) MarkReminded(id string, at time.Time) error {
	task, err := s.storage.GetTask(id)
	if err != nil {
		return err
	}
	at = at.UTC()
	task.LastRemindedAtUTC = &at
	if err := s.storage.SaveTask(task); err != nil {
		return fmt.Errorf("failed to mark task reminded: %w", err)
	}
	return nil
}
