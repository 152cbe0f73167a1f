// Package policy holds the access rules for projects and tasks as a single
// decision table. Handlers and services never compare roles directly; every
// gate goes through Allows so the per-action asymmetries (for example: any
// caller may update a task, only admins may update a project) are stated in
// one place.
package policy

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Mehedi-Hassan-Rauf/project-management/models"
)

type Action string

const (
	ActionList   Action = "list"
	ActionGet    Action = "get"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Resource string

const (
	ResourceProject Resource = "project"
	ResourceTask    Resource = "task"
)

type ruleKey struct {
	Action   Action
	Resource Resource
}

var (
	anyAuthenticated = []models.Role{models.RoleAdmin, models.RoleMember}
	adminOnly        = []models.Role{models.RoleAdmin}
)

// rules is exhaustive over (action, resource); a missing key denies.
// Single-project get is intentionally open to any caller even though the
// list is visibility-filtered, and task update is intentionally broader
// than project update.
var rules = map[ruleKey][]models.Role{
	{ActionList, ResourceProject}:   anyAuthenticated,
	{ActionGet, ResourceProject}:    anyAuthenticated,
	{ActionCreate, ResourceProject}: adminOnly,
	{ActionUpdate, ResourceProject}: adminOnly,
	{ActionDelete, ResourceProject}: adminOnly,

	{ActionList, ResourceTask}:   anyAuthenticated,
	{ActionGet, ResourceTask}:    anyAuthenticated,
	{ActionCreate, ResourceTask}: adminOnly,
	{ActionUpdate, ResourceTask}: anyAuthenticated,
	{ActionDelete, ResourceTask}: adminOnly,
}

// Allows reports whether the caller's role may perform action on the given
// resource type.
func Allows(caller models.Identity, action Action, resource Resource) bool {
	allowed, ok := rules[ruleKey{Action: action, Resource: resource}]
	if !ok {
		return false
	}
	for _, role := range allowed {
		if role == caller.Role {
			return true
		}
	}
	return false
}

// ProjectVisibilityFilter returns the query-time filter restricting which
// projects a list may return: everything for admins, otherwise projects the
// caller manages or is a team member of. Evaluated by the database, never by
// loading the collection into memory.
func ProjectVisibilityFilter(caller models.Identity) bson.M {
	if caller.IsAdmin() {
		return bson.M{}
	}
	return bson.M{
		"$or": []bson.M{
			{"managerId": caller.UserID},
			{"teamMembers": caller.UserID},
		},
	}
}
