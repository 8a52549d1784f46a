package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
)

// SchedulerHandler handles scheduler management HTTP requests
type SchedulerHandler struct {
	schedulerService interfaces.SchedulerService
	logger           arbor.ILogger
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(schedulerService interfaces.SchedulerService, logger arbor.ILogger) *SchedulerHandler {
	return &SchedulerHandler{
		schedulerService: schedulerService,
		logger:           logger,
	}
}

// JobsHandler handles GET /api/scheduler/jobs: all registered job statuses.
func (h *SchedulerHandler) JobsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"running": h.schedulerService.IsRunning(),
		"jobs":    h.schedulerService.GetAllJobStatuses(),
	})
}

// JobActionHandler handles POST /api/scheduler/jobs/{name}/{action} where
// action is trigger, enable or disable.
func (h *SchedulerHandler) JobActionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/scheduler/jobs/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		WriteError(w, http.StatusBadRequest, "Expected /api/scheduler/jobs/{name}/{action}")
		return
	}
	name, action := parts[0], parts[1]

	var err error
	switch action {
	case "trigger":
		err = h.schedulerService.TriggerJob(name)
	case "enable":
		err = h.schedulerService.EnableJob(name)
	case "disable":
		err = h.schedulerService.DisableJob(name)
	default:
		WriteError(w, http.StatusBadRequest, "Unknown action: "+action)
		return
	}

	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, err.Error())
		} else {
			WriteError(w, http.StatusConflict, err.Error())
		}
		return
	}

	h.logger.Info().Str("job_name", name).Str("action", action).Msg("Scheduler job action")
	WriteSuccess(w, "Job "+action+" accepted")
}
