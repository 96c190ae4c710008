package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/studytask/studytask-api/internal/api/middleware"
	"github.com/studytask/studytask-api/internal/api/shared"
	"github.com/studytask/studytask-api/internal/platform/logger"
	"github.com/studytask/studytask-api/internal/redact"
	"github.com/studytask/studytask-api/internal/service"
)

// TaskHandler handles task-related HTTP requests. Every operation is scoped
// to the account resolved by the auth middleware; a task belonging to anyone
// else is indistinguishable from one that does not exist.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /tasks requests.
// It returns the authenticated account's tasks, newest first.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.GetAccount(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account not found in request context")
		return
	}

	tasks, err := h.taskService.ListForOwner(r.Context(), account.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.GetAccount(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account not found in request context")
		return
	}

	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetForOwner(r.Context(), taskID, account.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	account, ok := middleware.GetAccount(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account not found in request context")
		return
	}

	var req TaskCreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.Int64("account_id", account.ID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.Int64("account_id", account.ID))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	task, err := h.taskService.Create(r.Context(), service.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}, account.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("account_id", account.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{id} requests.
// The whole record is replaced; a successful update returns 204.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	account, ok := middleware.GetAccount(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account not found in request context")
		return
	}

	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.Int64("account_id", account.ID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.Int64("account_id", account.ID))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	updated, err := h.taskService.Update(r.Context(), taskID, service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Deadline:    req.Deadline,
	}, account.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if !updated {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.GetAccount(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account not found in request context")
		return
	}

	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	deleted, err := h.taskService.Delete(r.Context(), taskID, account.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete task", err)
		return
	}
	if !deleted {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// taskIDFromPath parses the {id} path parameter. A missing or non-numeric
// value writes a 400 response and reports false.
func taskIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return 0, false
	}

	return id, true
}
