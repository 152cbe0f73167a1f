package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Mehedi-Hassan-Rauf/project-management/models"
	"github.com/Mehedi-Hassan-Rauf/project-management/services"
)

type fakeTaskService struct {
	listResult   []models.TaskView
	singleResult *models.TaskView
	err          error

	lastProjectID string
}

func (f *fakeTaskService) ListTasksByProject(ctx context.Context, caller models.Identity, projectID string) ([]models.TaskView, error) {
	f.lastProjectID = projectID
	return f.listResult, f.err
}

func (f *fakeTaskService) GetTask(ctx context.Context, caller models.Identity, id string) (*models.TaskView, error) {
	return f.singleResult, f.err
}

func (f *fakeTaskService) CreateTask(ctx context.Context, caller models.Identity, in models.CreateTaskInput) (*models.TaskView, error) {
	return f.singleResult, f.err
}

func (f *fakeTaskService) UpdateTask(ctx context.Context, caller models.Identity, id string, in models.UpdateTaskInput) (*models.TaskView, error) {
	return f.singleResult, f.err
}

func (f *fakeTaskService) DeleteTask(ctx context.Context, caller models.Identity, id string) error {
	return f.err
}

func newTaskRouter(svc TaskService) *mux.Router {
	h := NewTaskHandler(svc)
	r := mux.NewRouter()
	r.HandleFunc("/api/tasks", h.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/project/{projectId}", h.ListTasksByProject).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", h.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", h.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", h.DeleteTask).Methods(http.MethodDelete)
	return r
}

func TestListTasksByProjectRoutesProjectID(t *testing.T) {
	svc := &fakeTaskService{listResult: []models.TaskView{}}
	caller := models.Identity{UserID: primitive.NewObjectID(), Role: models.RoleMember}
	projectID := primitive.NewObjectID().Hex()

	rec := httptest.NewRecorder()
	newTaskRouter(svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/tasks/project/"+projectID, "", caller))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, projectID, svc.lastProjectID)
}

func TestCreateTaskForbiddenMapping(t *testing.T) {
	svc := &fakeTaskService{err: fmt.Errorf("create task: %w", services.ErrForbidden)}
	caller := models.Identity{UserID: primitive.NewObjectID(), Role: models.RoleMember}

	rec := httptest.NewRecorder()
	newTaskRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/tasks", `{"title":"T"}`, caller))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateTaskSuccess(t *testing.T) {
	view := &models.TaskView{ID: primitive.NewObjectID(), Title: "T"}
	svc := &fakeTaskService{singleResult: view}
	caller := models.Identity{UserID: primitive.NewObjectID(), Role: models.RoleMember}

	rec := httptest.NewRecorder()
	newTaskRouter(svc).ServeHTTP(rec, authedRequest(http.MethodPut, "/api/tasks/"+view.ID.Hex(), `{"status":"completed"}`, caller))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
}

func TestDeleteTaskNotFoundMapping(t *testing.T) {
	svc := &fakeTaskService{err: fmt.Errorf("task: %w", services.ErrNotFound)}
	caller := models.Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}

	rec := httptest.NewRecorder()
	newTaskRouter(svc).ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/tasks/"+primitive.NewObjectID().Hex(), "", caller))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTaskUnauthenticated(t *testing.T) {
	svc := &fakeTaskService{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+primitive.NewObjectID().Hex(), nil)
	newTaskRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
