package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Mehedi-Hassan-Rauf/project-management/models"
)

func TestAllows(t *testing.T) {
	admin := models.Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
	member := models.Identity{UserID: primitive.NewObjectID(), Role: models.RoleMember}

	tests := []struct {
		name     string
		caller   models.Identity
		action   Action
		resource Resource
		want     bool
	}{
		{"member lists projects", member, ActionList, ResourceProject, true},
		{"member gets single project", member, ActionGet, ResourceProject, true},
		{"member cannot create project", member, ActionCreate, ResourceProject, false},
		{"member cannot update project", member, ActionUpdate, ResourceProject, false},
		{"member cannot delete project", member, ActionDelete, ResourceProject, false},
		{"admin creates project", admin, ActionCreate, ResourceProject, true},
		{"admin updates project", admin, ActionUpdate, ResourceProject, true},
		{"admin deletes project", admin, ActionDelete, ResourceProject, true},

		{"member lists tasks", member, ActionList, ResourceTask, true},
		{"member gets task", member, ActionGet, ResourceTask, true},
		{"member cannot create task", member, ActionCreate, ResourceTask, false},
		{"member updates task", member, ActionUpdate, ResourceTask, true},
		{"member cannot delete task", member, ActionDelete, ResourceTask, false},
		{"admin creates task", admin, ActionCreate, ResourceTask, true},
		{"admin deletes task", admin, ActionDelete, ResourceTask, true},

		{"unknown role denied everywhere", models.Identity{UserID: primitive.NewObjectID(), Role: "owner"}, ActionList, ResourceProject, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.caller, tt.action, tt.resource))
		})
	}
}

func TestProjectVisibilityFilterAdmin(t *testing.T) {
	admin := models.Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}

	assert.Equal(t, bson.M{}, ProjectVisibilityFilter(admin))
}

func TestProjectVisibilityFilterMember(t *testing.T) {
	member := models.Identity{UserID: primitive.NewObjectID(), Role: models.RoleMember}

	want := bson.M{
		"$or": []bson.M{
			{"managerId": member.UserID},
			{"teamMembers": member.UserID},
		},
	}
	assert.Equal(t, want, ProjectVisibilityFilter(member))
}
