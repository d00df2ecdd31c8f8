package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/service"
)

const msgNoTasks = "Task not available..."

// TaskHandler handles task endpoints.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListTasks handles POST /tasks, the admin listing filtered by status and name.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var req ListTasksRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), req.Status, req.Name)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	msg := "Tasks were returned successfully"
	if len(tasks) == 0 {
		msg = msgNoTasks
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, msg, newTaskListPayload(tasks))
}

// ListUserTasks handles POST /tasks/user-tasks.
func (h *TaskHandler) ListUserTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	var req UserTasksRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tasks, err := h.tasks.ListTasksForUser(r.Context(), actor, req.ID, req.Status)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	msg := "For this particular ID, tasks have been counted and returned successfully."
	if len(tasks) == 0 {
		msg = msgNoTasks
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, msg, newTaskListPayload(tasks))
}

// GetTask handles GET /tasks/single-task/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Task was returned successfully", TaskPayload{Task: task})
}

// CreateTask handles POST /tasks/create-task. The caller becomes the creator.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), actor.ID, req.toInput())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusCreated, "Task created successfully", TaskPayload{Task: task})
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Task was deleted successfully", nil)
}

// EditTask handles PUT /tasks/{id}.
func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	var req EditTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.EditTask(r.Context(), chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Task was updated successfully", task)
}

// EditTaskStatus handles PUT /tasks/status/{id}.
func (h *TaskHandler) EditTaskStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	var req EditStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.EditTaskStatus(r.Context(), actor, chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Status updated successfully", task)
}
