package notify

import (
	"time"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
)

// ConsoleNotifier writes task notifications to the application log. Always
// registered so reminders are visible even with no websocket client
// connected.
type ConsoleNotifier struct {
	logger arbor.ILogger
}

// NewConsoleNotifier creates a console notifier
func NewConsoleNotifier(logger arbor.ILogger) interfaces.Notifier {
	return &ConsoleNotifier{logger: logger}
}

func (n *ConsoleNotifier) Name() string {
	return "console"
}

func (n *ConsoleNotifier) Notify(notification *models.TaskNotification) error {
	event := n.logger.Info().
		Str("task_id", notification.Task.ID).
		Str("title", notification.Task.Title).
		Str("priority", notification.Task.Priority).
		Str("reason", notification.Reason)

	if notification.Task.DueAtUTC != nil {
		event = event.Str("due_at", notification.Task.DueAtUTC.Format(time.RFC3339))
	}
	if notification.ReminderAt != nil {
		event = event.Str("reminder_at", notification.ReminderAt.Format(time.RFC3339))
	}

	if notification.Reason == models.NotifyReasonDue {
		event.Msg("Task is due")
	} else {
		event.Msg("Task reminder")
	}
	return nil
}
