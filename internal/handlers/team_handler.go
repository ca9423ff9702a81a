package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamkudos/awards-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamHandler handles team directory HTTP requests
type TeamHandler struct {
	teamService services.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeamRequest is the payload for POST /teams
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTeam handles POST /teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var request CreateTeamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	team, err := h.teamService.CreateTeam(c.Request.Context(), request.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// GetTeamByID handles GET /teams/:id
func (h *TeamHandler) GetTeamByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	team, err := h.teamService.GetTeam(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// GetAllTeams handles GET /teams
func (h *TeamHandler) GetAllTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}
