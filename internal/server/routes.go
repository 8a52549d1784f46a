package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Journal entries
	mux.HandleFunc("/api/entries/stats", s.app.EntryHandler.StatsHandler)
	mux.HandleFunc("/api/entries/reindex", s.app.EntryHandler.ReindexHandler)
	mux.HandleFunc("/api/entries", s.app.EntryHandler.EntriesHandler)    // GET (list), POST (create)
	mux.HandleFunc("/api/entries/", s.app.EntryHandler.EntryByIDHandler) // GET/DELETE /{id}

	// API routes - Tasks
	mux.HandleFunc("/api/tasks/due", s.app.TaskHandler.DueTasksHandler)
	mux.HandleFunc("/api/tasks", s.app.TaskHandler.TasksHandler)     // GET (list), POST (create)
	mux.HandleFunc("/api/tasks/", s.app.TaskHandler.TaskByIDHandler) // GET/PUT/DELETE /{id}

	// API routes - Chat (RAG-enabled chat)
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler)
	mux.HandleFunc("/api/chat/health", s.app.ChatHandler.HealthHandler)

	// API routes - Scheduler
	mux.HandleFunc("/api/scheduler/jobs", s.app.SchedulerHandler.JobsHandler)
	mux.HandleFunc("/api/scheduler/jobs/", s.app.SchedulerHandler.JobActionHandler) // POST /{name}/{action}

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
