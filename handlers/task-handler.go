package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Mehedi-Hassan-Rauf/project-management/middleware"
	"github.com/Mehedi-Hassan-Rauf/project-management/models"
)

// TaskService is what the handler needs from the task access layer.
type TaskService interface {
	ListTasksByProject(ctx context.Context, caller models.Identity, projectID string) ([]models.TaskView, error)
	GetTask(ctx context.Context, caller models.Identity, id string) (*models.TaskView, error)
	CreateTask(ctx context.Context, caller models.Identity, in models.CreateTaskInput) (*models.TaskView, error)
	UpdateTask(ctx context.Context, caller models.Identity, id string, in models.UpdateTaskInput) (*models.TaskView, error)
	DeleteTask(ctx context.Context, caller models.Identity, id string) error
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) ListTasksByProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	tasks, err := h.service.ListTasksByProject(r.Context(), caller, mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: tasks})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	task, err := h.service.GetTask(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: task})
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var in models.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request payload"})
		return
	}

	task, err := h.service.CreateTask(r.Context(), caller, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Success: true, Data: task})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var in models.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request payload"})
		return
	}

	task, err := h.service.UpdateTask(r.Context(), caller, mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: task})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteTask(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Task deleted successfully"})
}
