package models

import "time"

// Task status values. A task stays actionable until it is completed or
// cancelled.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// Task priority values.
const (
	TaskPriorityHigh   = "high"
	TaskPriorityMedium = "medium"
	TaskPriorityLow    = "low"
)

// Notify reasons attached to tasks returned by the reminder sweep.
const (
	NotifyReasonDue      = "due"
	NotifyReasonReminder = "reminder"
)

// Task is a tracked to-do item with optional due date and reminders.
// All timestamps are stored in UTC.
type Task struct {
	ID          string `json:"task_id" badgerhold:"key"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`

	CreatedAtUTC time.Time  `json:"created_at_utc"`
	DueAtUTC     *time.Time `json:"due_at_utc,omitempty"`

	// ReminderAtUTC lists absolute reminder times, typically derived from a
	// minutes-before-due offset when the task was created.
	ReminderAtUTC []time.Time `json:"reminder_at_utc_list,omitempty"`

	Status      string   `json:"status" validate:"oneof=pending in_progress completed cancelled"`
	Priority    string   `json:"priority" validate:"oneof=high medium low"`
	ProjectTags []string `json:"project_tags,omitempty"`

	// LastRemindedAtUTC tracks the most recent reminder notification so a
	// reminder slot is not re-fired every sweep.
	LastRemindedAtUTC *time.Time `json:"last_reminded_at_utc,omitempty"`
}

// IsActionable reports whether the task still needs attention.
func (t *Task) IsActionable() bool {
	return t.Status != TaskStatusCompleted && t.Status != TaskStatusCancelled
}

// TaskNotification is a task that the reminder sweep decided to surface,
// annotated with why.
type TaskNotification struct {
	Task   *Task  `json:"task"`
	Reason string `json:"reason"` // "due" or "reminder"

	// ReminderAt is set when Reason is "reminder": the specific reminder
	// slot that triggered the notification.
	ReminderAt *time.Time `json:"reminder_at,omitempty"`
}
