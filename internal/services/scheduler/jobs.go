package scheduler

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/models"
	"github.com/mymind-ai/mymind/internal/services/journal"
	"github.com/mymind-ai/mymind/internal/services/tasks"
	"github.com/mymind-ai/mymind/internal/services/workers"
)

// Job names registered at startup.
const (
	JobTaskReminders = "task_reminders"
	JobEmbedBackfill = "embed_backfill"
)

// NewReminderSweepJob returns a handler that checks for due tasks and
// unprocessed reminder slots, fans the notifications out to every notifier
// and marks reminders as processed so they fire once.
func NewReminderSweepJob(
	taskService *tasks.Service,
	notifiers []interfaces.Notifier,
	events interfaces.EventService,
	logger arbor.ILogger,
) func() error {
	return func() error {
		notifications, err := taskService.TasksNeedingAttention(time.Now().UTC())
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			return nil
		}

		logger.Info().Int("count", len(notifications)).Msg("Tasks need attention")

		for _, notification := range notifications {
			for _, notifier := range notifiers {
				if err := notifier.Notify(notification); err != nil {
					logger.Warn().
						Err(err).
						Str("notifier", notifier.Name()).
						Str("task_id", notification.Task.ID).
						Msg("Notification failed")
				}
			}

			if notification.Reason == models.NotifyReasonReminder {
				if err := taskService.MarkReminded(notification.Task.ID, time.Now().UTC()); err != nil {
					logger.Warn().
						Err(err).
						Str("task_id", notification.Task.ID).
						Msg("Failed to mark task reminded")
				}
			}

			if events != nil {
				_ = events.Publish(context.Background(), interfaces.Event{
					Type:    interfaces.EventReminderFired,
					Payload: notification,
				})
			}
		}
		return nil
	}
}

// NewEmbedBackfillJob returns a handler that finds entries which were saved
// without embeddings (offline capture, failed indexing) and indexes a batch
// of them through a worker pool.
func NewEmbedBackfillJob(
	journalService *journal.Service,
	concurrency int,
	batchLimit int,
	logger arbor.ILogger,
) func() error {
	return func() error {
		entries, err := journalService.ListEntries(nil)
		if err != nil {
			return err
		}

		var unindexed []*models.Entry
		for _, e := range entries {
			if e.IndexedAt == nil {
				unindexed = append(unindexed, e)
				if batchLimit > 0 && len(unindexed) >= batchLimit {
					break
				}
			}
		}
		if len(unindexed) == 0 {
			return nil
		}

		logger.Info().Int("count", len(unindexed)).Msg("Backfilling embeddings")

		pool := workers.NewPool(concurrency, logger)
		pool.Start()
		for _, entry := range unindexed {
			e := entry
			if err := pool.Submit(func(ctx context.Context) error {
				return journalService.IndexEntry(ctx, e)
			}); err != nil {
				logger.Warn().Err(err).Str("entry_id", e.ID).Msg("Failed to submit index job")
			}
		}
		pool.Wait()

		for _, err := range pool.Errors() {
			logger.Warn().Err(err).Msg("Backfill indexing error")
		}

		logger.Info().
			Int("submitted", len(unindexed)).
			Int("failed", len(pool.Errors())).
			Msg("Embedding backfill completed")
		return nil
	}
}
