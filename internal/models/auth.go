package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Caller is the verified identity triple supplied by the auth middleware
// for one request. The core trusts it as authoritative for the duration of
// that request only.
type Caller struct {
	UserID  primitive.ObjectID
	Roles   []Role
	TeamIDs []primitive.ObjectID
}

// HasRole reports whether the caller carries the given role.
func (c Caller) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller is an Administrator.
func (c Caller) IsAdmin() bool {
	return c.HasRole(RoleAdministrator)
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginResponse carries the issued JWT and the authenticated user
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
