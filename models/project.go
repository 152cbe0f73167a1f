package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
)

func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(s) {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return ProjectStatus(s), nil
	}
	return "", fmt.Errorf("unknown project status: %q", s)
}

// Project is the stored document. Member relationships are kept as raw
// ObjectID references; responses use ProjectView instead.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Status      ProjectStatus        `bson:"status" json:"status"`
	ManagerID   primitive.ObjectID   `bson:"managerId" json:"managerId"`
	TeamMembers []primitive.ObjectID `bson:"teamMembers" json:"teamMembers"`
	StartDate   time.Time            `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time           `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// ProjectView is a project with its user references resolved to summaries.
// The JSON field names match the stored document so clients see the expanded
// objects in place of the raw ids.
type ProjectView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      ProjectStatus      `json:"status"`
	Manager     UserSummary        `json:"managerId"`
	TeamMembers []UserSummary      `json:"teamMembers"`
	StartDate   time.Time          `json:"startDate,omitempty"`
	EndDate     *time.Time         `json:"endDate,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// CreateProjectInput carries the client-settable fields of a new project.
// There is deliberately no manager field: the creator always becomes the
// manager.
type CreateProjectInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	TeamMembers []string   `json:"teamMembers"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// UpdateProjectInput holds a partial update. Nil fields are left untouched.
// ManagerID is decoded only so that attempts to reassign it can be rejected.
type UpdateProjectInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	TeamMembers *[]string  `json:"teamMembers"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	ManagerID   *string    `json:"managerId"`
}
