package interfaces

import "github.com/mymind-ai/mymind/internal/models"

// Notifier delivers task notifications to an output channel such as
// the console or connected websocket clients.
type Notifier interface {
	Notify(notification *models.TaskNotification) error
	Name() string
}
