package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/common"
	"github.com/mymind-ai/mymind/internal/handlers"
	"github.com/mymind-ai/mymind/internal/interfaces"
	"github.com/mymind-ai/mymind/internal/services/chat"
	"github.com/mymind-ai/mymind/internal/services/embeddings"
	"github.com/mymind-ai/mymind/internal/services/events"
	"github.com/mymind-ai/mymind/internal/services/journal"
	"github.com/mymind-ai/mymind/internal/services/llm"
	"github.com/mymind-ai/mymind/internal/services/notify"
	"github.com/mymind-ai/mymind/internal/services/scheduler"
	"github.com/mymind-ai/mymind/internal/services/tasks"
	"github.com/mymind-ai/mymind/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Event-driven services
	EventService interfaces.EventService

	// LLM services (chat and embedding providers)
	LLMServices      *llm.Services
	EmbeddingService interfaces.EmbeddingService

	// Journal services
	JournalService *journal.Service
	Retriever      *journal.Retriever

	// Chat service (RAG over journal entries)
	ChatService interfaces.ChatService

	// Task service
	TaskService *tasks.Service

	// Background jobs
	SchedulerService interfaces.SchedulerService
	Notifiers        []interfaces.Notifier

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	ChatHandler      *handlers.ChatHandler
	EntryHandler     *handlers.EntryHandler
	TaskHandler      *handlers.TaskHandler
	SchedulerHandler *handlers.SchedulerHandler
	WSHandler        *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// EventService is needed for WebSocketHandler initialization.
	// The WebSocket handler must exist before services so it can be
	// registered as a reminder notifier.
	app.EventService = events.NewService(app.Logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, app.Logger)

	// Initialize services
	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize handlers
	if err := app.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	// Register and start background jobs
	if err := app.initScheduler(); err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	logger.Info().
		Str("llm_mode", string(app.ChatService.GetMode())).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase opens BadgerDB storage
func (a *App) initDatabase() error {
	manager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open badger storage: %w", err)
	}
	a.StorageManager = manager

	a.Logger.Info().
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage initialized")

	return nil
}

// initServices creates all domain services in dependency order
func (a *App) initServices() error {
	// LLM providers (chat + embedding, or disabled when no key configured)
	llmServices, err := llm.NewServices(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM services: %w", err)
	}
	a.LLMServices = llmServices

	a.EmbeddingService = embeddings.NewService(
		llmServices.Embed,
		a.Config.Gemini.EmbeddingModel,
		a.Config.LLM.EmbeddingDimension,
		a.Logger,
	)

	a.JournalService = journal.NewService(
		a.StorageManager.EntryStorage(),
		a.StorageManager.ChunkStorage(),
		a.EmbeddingService,
		a.EventService,
		a.Logger,
	)

	a.Retriever = journal.NewRetriever(
		a.StorageManager.ChunkStorage(),
		a.EmbeddingService,
		a.Logger,
	)

	a.ChatService = chat.NewService(
		llmServices.Chat,
		a.Retriever,
		a.StorageManager.EntryStorage(),
		&a.Config.Chat,
		llmServices.ChatModelName(),
		a.Logger,
	)

	a.TaskService = tasks.NewService(a.StorageManager.TaskStorage(), a.Logger)

	// Reminder delivery: console log plus websocket push to connected clients
	a.Notifiers = []interfaces.Notifier{
		notify.NewConsoleNotifier(a.Logger),
		a.WSHandler,
	}

	a.SchedulerService = scheduler.NewService(a.Logger)

	return nil
}

// initHandlers creates all HTTP handlers
func (a *App) initHandlers() error {
	a.APIHandler = handlers.NewAPIHandler()
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, a.Logger)
	a.EntryHandler = handlers.NewEntryHandler(a.JournalService, a.Logger)
	a.TaskHandler = handlers.NewTaskHandler(a.TaskService, a.Logger)
	a.SchedulerHandler = handlers.NewSchedulerHandler(a.SchedulerService, a.Logger)

	return nil
}

// initScheduler registers background jobs and starts the scheduler when enabled
func (a *App) initScheduler() error {
	err := a.SchedulerService.RegisterJob(
		scheduler.JobTaskReminders,
		a.Config.Scheduler.ReminderSchedule,
		"Sweep tasks for due dates and reminders",
		scheduler.NewReminderSweepJob(a.TaskService, a.Notifiers, a.EventService, a.Logger),
	)
	if err != nil {
		return fmt.Errorf("failed to register reminder sweep job: %w", err)
	}

	err = a.SchedulerService.RegisterJob(
		scheduler.JobEmbedBackfill,
		a.Config.Scheduler.EmbedSchedule,
		"Index journal entries that are missing embeddings",
		scheduler.NewEmbedBackfillJob(
			a.JournalService,
			a.Config.Workers.Concurrency,
			a.Config.Scheduler.EmbedBatchLimit,
			a.Logger,
		),
	)
	if err != nil {
		return fmt.Errorf("failed to register embed backfill job: %w", err)
	}

	if !a.Config.Scheduler.Enabled {
		a.Logger.Info().Msg("Scheduler disabled by configuration")
		return nil
	}

	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	return nil
}

// Close closes all application resources
func (a *App) Close() error {
	// Stop scheduler service
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	// Close event service (stops subscriber dispatch)
	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	// Close LLM clients
	if a.LLMServices != nil {
		if err := a.LLMServices.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM services")
		}
	}

	// Close database last
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage manager")
			return err
		}
	}

	a.Logger.Info().Msg("Application resources closed")
	return nil
}
