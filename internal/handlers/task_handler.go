package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/models"
	"github.com/mymind-ai/mymind/internal/services/tasks"
)

// TaskHandler handles task management HTTP requests
type TaskHandler struct {
	taskService *tasks.Service
	logger      arbor.ILogger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *tasks.Service, logger arbor.ILogger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// TasksHandler handles /api/tasks: POST creates a task, GET lists all tasks.
func (h *TaskHandler) TasksHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.addTask(w, r)
	case http.MethodGet:
		h.listTasks(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TaskHandler) addTask(w http.ResponseWriter, r *http.Request) {
	var req tasks.AddTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode task request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.taskService.AddTask(&req)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	var (
		list []*models.Task
		err  error
	)
	if r.URL.Query().Get("status") == "pending" {
		list, err = h.taskService.PendingTasks()
	} else {
		list, err = h.taskService.ListTasks()
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list tasks")
		WriteError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	if list == nil {
		list = []*models.Task{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": list,
		"count": len(list),
	})
}

// DueTasksHandler handles GET /api/tasks/due: tasks that are due or carry a
// pending reminder as of now.
func (h *TaskHandler) DueTasksHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	notifications, err := h.taskService.TasksNeedingAttention(time.Now().UTC())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to check due tasks")
		WriteError(w, http.StatusInternalServerError, "Failed to check due tasks")
		return
	}
	if notifications == nil {
		notifications = []*models.TaskNotification{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// TaskByIDHandler handles /api/tasks/{id}: GET retrieves, PUT updates,
// DELETE removes.
func (h *TaskHandler) TaskByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		task, err := h.taskService.GetTask(id)
		if err != nil {
			WriteError(w, http.StatusNotFound, "Task not found")
			return
		}
		WriteJSON(w, http.StatusOK, task)
	case http.MethodPut:
		var update tasks.TaskUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		task, err := h.taskService.UpdateTask(id, &update)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				WriteError(w, http.StatusNotFound, "Task not found")
			} else {
				WriteError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		WriteJSON(w, http.StatusOK, task)
	case http.MethodDelete:
		if err := h.taskService.DeleteTask(id); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to delete task")
			return
		}
		WriteSuccess(w, "Task deleted")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
