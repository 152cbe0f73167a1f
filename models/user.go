package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of user roles. Anything outside it is rejected at
// the authentication boundary.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember:
		return RoleMember, nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// Identity is the resolved authenticated caller attached to every request.
type Identity struct {
	UserID primitive.ObjectID
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// User lives in the users collection, owned by the authentication service.
// Only the fields needed for relationship expansion are read here.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Role  Role               `bson:"role" json:"role"`
}

// UserSummary is the shape a user reference expands to in responses.
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}
