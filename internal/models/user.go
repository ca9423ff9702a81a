package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a directory role attached to a user
type Role string

const (
	RoleUser          Role = "User"
	RoleTeamLead      Role = "Team Lead"
	RoleAdministrator Role = "Administrator"
)

// TeamMembership links a user to a team
type TeamMembership struct {
	TeamID primitive.ObjectID `bson:"teamId" json:"teamId"`
	IsLead bool               `bson:"isLead" json:"isLead"`
}

// User represents a directory user
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Roles     []Role             `bson:"roles" json:"roles"`
	Manager   string             `bson:"manager,omitempty" json:"manager,omitempty"`
	TeamRole  string             `bson:"teamRole,omitempty" json:"teamRole,omitempty"`
	Teams     []TeamMembership   `bson:"teams" json:"teams"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// MemberOf reports whether the user belongs to the given team.
func (u *User) MemberOf(teamID primitive.ObjectID) bool {
	for _, m := range u.Teams {
		if m.TeamID == teamID {
			return true
		}
	}
	return false
}
