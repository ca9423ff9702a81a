package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamkudos/awards-backend/internal/middleware"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventHandler handles award-event HTTP requests
type EventHandler struct {
	eventService services.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// AwardRequest is one award inside a create/update event payload
type AwardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// CreateEventRequest is the payload for POST /events
type CreateEventRequest struct {
	Name             string         `json:"name" binding:"required"`
	EventType        string         `json:"eventType" binding:"required"`
	TeamID           string         `json:"teamId"`
	MainJudgeUserID  string         `json:"mainJudgeUserId"`
	AssignedJudgeIDs []string       `json:"assignedJudgeIds"`
	NominationStart  *time.Time     `json:"nominationStart"`
	NominationEnd    *time.Time     `json:"nominationEnd"`
	UserVotingEnd    *time.Time     `json:"userVotingEnd"`
	JudgeVotingEnd   *time.Time     `json:"judgeVotingEnd"`
	Awards           []AwardRequest `json:"awards" binding:"required"`
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var request CreateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	params := services.CreateEventParams{
		Name:            request.Name,
		EventType:       models.EventType(request.EventType),
		NominationStart: request.NominationStart,
		NominationEnd:   request.NominationEnd,
		UserVotingEnd:   request.UserVotingEnd,
		JudgeVotingEnd:  request.JudgeVotingEnd,
	}
	if request.TeamID != "" {
		teamID, err := primitive.ObjectIDFromHex(request.TeamID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teamId format"})
			return
		}
		params.TeamID = &teamID
	}
	if request.MainJudgeUserID != "" {
		judgeID, err := primitive.ObjectIDFromHex(request.MainJudgeUserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mainJudgeUserId format"})
			return
		}
		params.MainJudgeUserID = &judgeID
	}
	for _, raw := range request.AssignedJudgeIDs {
		judgeID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignedJudgeIds entry"})
			return
		}
		params.AssignedJudgeIDs = append(params.AssignedJudgeIDs, judgeID)
	}
	for _, a := range request.Awards {
		params.Awards = append(params.Awards, services.AwardParams{
			Name:        a.Name,
			Description: a.Description,
			Points:      a.Points,
		})
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), caller, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEvent handles GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 20)
	status := models.EventStatus(c.Query("status"))
	eventType := models.EventType(c.Query("type"))

	events, err := h.eventService.ListEvents(c.Request.Context(), page, limit, status, eventType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// UpdateEventRequest is the payload for PUT /events/:id. Omitted fields
// are left untouched; only Draft events accept edits.
type UpdateEventRequest struct {
	Name             *string        `json:"name"`
	MainJudgeUserID  string         `json:"mainJudgeUserId"`
	AssignedJudgeIDs []string       `json:"assignedJudgeIds"`
	NominationStart  *time.Time     `json:"nominationStart"`
	NominationEnd    *time.Time     `json:"nominationEnd"`
	UserVotingEnd    *time.Time     `json:"userVotingEnd"`
	JudgeVotingEnd   *time.Time     `json:"judgeVotingEnd"`
	Awards           []AwardRequest `json:"awards"`
}

// UpdateEvent handles PUT /events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request UpdateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	params := services.UpdateEventParams{
		Name:            request.Name,
		NominationStart: request.NominationStart,
		NominationEnd:   request.NominationEnd,
		UserVotingEnd:   request.UserVotingEnd,
		JudgeVotingEnd:  request.JudgeVotingEnd,
	}
	if request.MainJudgeUserID != "" {
		judgeID, err := primitive.ObjectIDFromHex(request.MainJudgeUserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mainJudgeUserId format"})
			return
		}
		params.MainJudgeUserID = &judgeID
	}
	if request.AssignedJudgeIDs != nil {
		params.AssignedJudgeIDs = []primitive.ObjectID{}
		for _, raw := range request.AssignedJudgeIDs {
			judgeID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignedJudgeIds entry"})
				return
			}
			params.AssignedJudgeIDs = append(params.AssignedJudgeIDs, judgeID)
		}
	}
	if request.Awards != nil {
		params.Awards = []services.AwardParams{}
		for _, a := range request.Awards {
			params.Awards = append(params.Awards, services.AwardParams{
				Name:        a.Name,
				Description: a.Description,
				Points:      a.Points,
			})
		}
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), caller, id, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// AdvanceEventRequest is the payload for POST /events/:id/advance
type AdvanceEventRequest struct {
	ExpectedStatus string `json:"expectedStatus" binding:"required"`
	Force          bool   `json:"force"`
}

// AdvanceEvent handles POST /events/:id/advance
func (h *EventHandler) AdvanceEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request AdvanceEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	event, err := h.eventService.AdvanceEvent(c.Request.Context(), caller, id, models.EventStatus(request.ExpectedStatus), request.Force)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// ResolveAwardRequest is the payload for POST /events/:id/awards/:awardId/resolve
type ResolveAwardRequest struct {
	WinnerUserID string `json:"winnerUserId" binding:"required"`
}

// ResolveAward handles POST /events/:id/awards/:awardId/resolve
func (h *EventHandler) ResolveAward(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	awardID, err := primitive.ObjectIDFromHex(c.Param("awardId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid award ID format"})
		return
	}
	var request ResolveAwardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	winnerID, err := primitive.ObjectIDFromHex(request.WinnerUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid winnerUserId format"})
		return
	}
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	event, err := h.eventService.ResolveAward(c.Request.Context(), caller, id, awardID, winnerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// GetWinners handles GET /events/:id/winners
func (h *EventHandler) GetWinners(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	winners, err := h.eventService.GetWinners(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, winners)
}
