package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status: %q", s)
}

// Task is the stored document. ProjectID is set at creation and never
// reassigned.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID  `bson:"projectId" json:"projectId"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Status      TaskStatus          `bson:"status" json:"status"`
	AssigneeID  *primitive.ObjectID `bson:"assigneeId,omitempty" json:"assigneeId,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// TaskView is a task with its assignee reference resolved.
type TaskView struct {
	ID          primitive.ObjectID `json:"id"`
	ProjectID   primitive.ObjectID `json:"projectId"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      TaskStatus         `json:"status"`
	Assignee    *UserSummary       `json:"assigneeId,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type CreateTaskInput struct {
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AssigneeID  string `json:"assigneeId"`
}

// UpdateTaskInput holds a partial update. An explicit empty AssigneeID
// clears the assignment; ProjectID is decoded only to reject reassignment.
type UpdateTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssigneeID  *string `json:"assigneeId"`
	ProjectID   *string `json:"projectId"`
}
