package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mehedi-Hassan-Rauf/project-management/models"
	"github.com/Mehedi-Hassan-Rauf/project-management/policy"
)

// TaskNotifier delivers assignment notifications. Implemented by
// clients.NotificationsClient; a nil notifier disables delivery.
type TaskNotifier interface {
	NotifyTaskAssigned(ctx context.Context, userID primitive.ObjectID, taskTitle string)
}

type TaskService struct {
	TasksCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
	UsersCollection    *mongo.Collection
	Notifier           TaskNotifier
}

func NewTaskService(tasks, projects, users *mongo.Collection, notifier TaskNotifier) *TaskService {
	return &TaskService{
		TasksCollection:    tasks,
		ProjectsCollection: projects,
		UsersCollection:    users,
		Notifier:           notifier,
	}
}

// ListTasksByProject returns the tasks of one project, newest first, with
// assignee references expanded. No membership check: any authenticated
// caller may list any project's tasks.
func (s *TaskService) ListTasksByProject(ctx context.Context, caller models.Identity, projectID string) ([]models.TaskView, error) {
	if !policy.Allows(caller, policy.ActionList, policy.ResourceTask) {
		return nil, fmt.Errorf("list tasks: %w", ErrForbidden)
	}

	projectObjectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", projectID, ErrValidation)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"projectId": projectObjectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	return s.expandTasks(ctx, tasks)
}

// GetTask fetches a single task by id with its assignee expanded.
func (s *TaskService) GetTask(ctx context.Context, caller models.Identity, id string) (*models.TaskView, error) {
	if !policy.Allows(caller, policy.ActionGet, policy.ResourceTask) {
		return nil, fmt.Errorf("get task: %w", ErrForbidden)
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}

	var task models.Task
	err = s.TasksCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}

	return s.expandTask(ctx, task)
}

// CreateTask inserts a new task under an existing project and notifies the
// assignee when one is set.
func (s *TaskService) CreateTask(ctx context.Context, caller models.Identity, in models.CreateTaskInput) (*models.TaskView, error) {
	if !policy.Allows(caller, policy.ActionCreate, policy.ResourceTask) {
		return nil, fmt.Errorf("create task: %w", ErrForbidden)
	}

	task, err := newTaskFromInput(in)
	if err != nil {
		return nil, err
	}

	// The parent project must exist; tasks are only reachable through it.
	err = s.ProjectsCollection.FindOne(ctx, bson.M{"_id": task.ProjectID}).Err()
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("project %q does not exist: %w", in.ProjectID, ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	if _, err := s.TasksCollection.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if task.AssigneeID != nil && s.Notifier != nil {
		s.Notifier.NotifyTaskAssigned(ctx, *task.AssigneeID, task.Title)
	}

	return s.expandTask(ctx, *task)
}

func newTaskFromInput(in models.CreateTaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("task title is required: %w", ErrValidation)
	}
	if in.ProjectID == "" {
		return nil, fmt.Errorf("task projectId is required: %w", ErrValidation)
	}

	projectID, err := primitive.ObjectIDFromHex(in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", in.ProjectID, ErrValidation)
	}

	status := models.TaskStatusPending
	if in.Status != "" {
		parsed, err := models.ParseTaskStatus(in.Status)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrValidation)
		}
		status = parsed
	}

	task := &models.Task{
		ID:          primitive.NewObjectID(),
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}

	if in.AssigneeID != "" {
		assigneeID, err := primitive.ObjectIDFromHex(in.AssigneeID)
		if err != nil {
			return nil, fmt.Errorf("invalid assignee id %q: %w", in.AssigneeID, ErrValidation)
		}
		task.AssigneeID = &assigneeID
	}

	return task, nil
}

// UpdateTask applies a merge update of the provided fields. Unlike project
// updates this is open to every authenticated caller. Reassignment triggers
// a notification to the new assignee.
func (s *TaskService) UpdateTask(ctx context.Context, caller models.Identity, id string, in models.UpdateTaskInput) (*models.TaskView, error) {
	if !policy.Allows(caller, policy.ActionUpdate, policy.ResourceTask) {
		return nil, fmt.Errorf("update task: %w", ErrForbidden)
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}

	update, assigneeProvided, err := taskUpdateDocument(in)
	if err != nil {
		return nil, err
	}
	if len(update) == 0 {
		// Nothing to merge; behave like a fetch.
		return s.GetTask(ctx, caller, id)
	}

	// A reassignment notification only goes out when the assignee actually
	// changes, so the pre-update assignee has to be read first.
	var previousAssignee *primitive.ObjectID
	if assigneeProvided {
		var before models.Task
		err := s.TasksCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&before)
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch task: %w", err)
		}
		previousAssignee = before.AssigneeID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Task
	err = s.TasksCollection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if assigneeProvided && updated.AssigneeID != nil && s.Notifier != nil {
		if previousAssignee == nil || *previousAssignee != *updated.AssigneeID {
			s.Notifier.NotifyTaskAssigned(ctx, *updated.AssigneeID, updated.Title)
		}
	}

	return s.expandTask(ctx, updated)
}

// taskUpdateDocument translates a partial update into an update document.
// The second return reports whether the body carried an assignee field at
// all; whether it is an actual reassignment is decided against the stored
// document.
func taskUpdateDocument(in models.UpdateTaskInput) (bson.M, bool, error) {
	if in.ProjectID != nil {
		return nil, false, fmt.Errorf("projectId is immutable: %w", ErrValidation)
	}

	set := bson.M{}
	unset := bson.M{}
	assigneeProvided := false

	if in.Title != nil {
		if *in.Title == "" {
			return nil, false, fmt.Errorf("task title is required: %w", ErrValidation)
		}
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Status != nil {
		status, err := models.ParseTaskStatus(*in.Status)
		if err != nil {
			return nil, false, fmt.Errorf("%v: %w", err, ErrValidation)
		}
		set["status"] = status
	}
	if in.AssigneeID != nil {
		assigneeProvided = true
		if *in.AssigneeID == "" {
			unset["assigneeId"] = ""
		} else {
			assigneeID, err := primitive.ObjectIDFromHex(*in.AssigneeID)
			if err != nil {
				return nil, false, fmt.Errorf("invalid assignee id %q: %w", *in.AssigneeID, ErrValidation)
			}
			set["assigneeId"] = assigneeID
		}
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, assigneeProvided, nil
}

// DeleteTask removes a single task.
func (s *TaskService) DeleteTask(ctx context.Context, caller models.Identity, id string) error {
	if !policy.Allows(caller, policy.ActionDelete, policy.ResourceTask) {
		return fmt.Errorf("delete task: %w", ErrForbidden)
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("task %q: %w", id, ErrNotFound)
	}

	result, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *TaskService) expandTask(ctx context.Context, task models.Task) (*models.TaskView, error) {
	views, err := s.expandTasks(ctx, []models.Task{task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// expandTasks resolves assignee references across all given tasks with a
// single users query.
func (s *TaskService) expandTasks(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	views := make([]models.TaskView, 0, len(tasks))
	if len(tasks) == 0 {
		return views, nil
	}

	ids := make([]primitive.ObjectID, 0, len(tasks))
	seen := make(map[primitive.ObjectID]bool)
	for _, t := range tasks {
		if t.AssigneeID != nil && !seen[*t.AssigneeID] {
			seen[*t.AssigneeID] = true
			ids = append(ids, *t.AssigneeID)
		}
	}

	summaries, err := fetchUserSummaries(ctx, s.UsersCollection, ids)
	if err != nil {
		return nil, err
	}

	for _, t := range tasks {
		view := models.TaskView{
			ID:          t.ID,
			ProjectID:   t.ProjectID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			CreatedAt:   t.CreatedAt,
		}
		if t.AssigneeID != nil {
			summary, ok := summaries[*t.AssigneeID]
			if !ok {
				summary = models.UserSummary{ID: *t.AssigneeID}
			}
			view.Assignee = &summary
		}
		views = append(views, view)
	}

	return views, nil
}
