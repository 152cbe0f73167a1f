package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Mehedi-Hassan-Rauf/project-management/middleware"
	"github.com/Mehedi-Hassan-Rauf/project-management/models"
)

// ProjectService is what the handler needs from the project access layer.
type ProjectService interface {
	ListProjects(ctx context.Context, caller models.Identity) ([]models.ProjectView, error)
	GetProject(ctx context.Context, caller models.Identity, id string) (*models.ProjectView, error)
	CreateProject(ctx context.Context, caller models.Identity, in models.CreateProjectInput) (*models.ProjectView, error)
	UpdateProject(ctx context.Context, caller models.Identity, id string, in models.UpdateProjectInput) (*models.ProjectView, error)
	DeleteProject(ctx context.Context, caller models.Identity, id string) error
}

type ProjectHandler struct {
	service ProjectService
}

func NewProjectHandler(service ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	projects, err := h.service.ListProjects(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: projects})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	project, err := h.service.GetProject(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: project})
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var in models.CreateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request payload"})
		return
	}

	project, err := h.service.CreateProject(r.Context(), caller, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Success: true, Data: project})
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var in models.UpdateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request payload"})
		return
	}

	project, err := h.service.UpdateProject(r.Context(), caller, mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: project})
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteProject(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Project deleted successfully"})
}
