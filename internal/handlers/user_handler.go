package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamkudos/awards-backend/internal/middleware"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles user directory HTTP requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), caller.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// TeamMembershipRequest is one team entry in an update-profile payload
type TeamMembershipRequest struct {
	TeamID string `json:"teamId" binding:"required"`
	IsLead bool   `json:"isLead"`
}

// UpdateProfileRequest is the payload for PUT /users/me/profile
type UpdateProfileRequest struct {
	Name     *string                 `json:"name"`
	Manager  *string                 `json:"manager"`
	TeamRole *string                 `json:"teamRole"`
	Teams    []TeamMembershipRequest `json:"teams"`
}

// UpdateProfile handles PUT /users/me/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}
	var request UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := services.UpdateProfileParams{
		Name:     request.Name,
		Manager:  request.Manager,
		TeamRole: request.TeamRole,
	}
	if request.Teams != nil {
		params.Teams = make([]models.TeamMembership, 0, len(request.Teams))
		for _, t := range request.Teams {
			teamID, err := primitive.ObjectIDFromHex(t.TeamID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teamId format"})
				return
			}
			params.Teams = append(params.Teams, models.TeamMembership{TeamID: teamID, IsLead: t.IsLead})
		}
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), caller.UserID, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByID handles GET /users/:id
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetAllUsers handles GET /users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 50)
	users, err := h.userService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUserRequest is the payload for POST /users
type CreateUserRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Roles    []string `json:"roles"`
	Manager  string   `json:"manager"`
	TeamRole string   `json:"teamRole"`
}

// CreateUser handles POST /users (administrative)
func (h *UserHandler) CreateUser(c *gin.Context) {
	var request CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Name:     request.Name,
		Email:    request.Email,
		Manager:  request.Manager,
		TeamRole: request.TeamRole,
	}
	for _, r := range request.Roles {
		user.Roles = append(user.Roles, models.Role(r))
	}

	created, err := h.userService.CreateUser(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
