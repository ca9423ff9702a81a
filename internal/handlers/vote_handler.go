package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamkudos/awards-backend/internal/middleware"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoteHandler handles vote HTTP requests
type VoteHandler struct {
	voteService services.VoteService
}

// NewVoteHandler creates a new VoteHandler
func NewVoteHandler(voteService services.VoteService) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

// CastVoteRequest is the payload for POST /events/:id/votes. Points are
// not accepted from the client; they derive from voteType.
type CastVoteRequest struct {
	AwardID       string `json:"awardId" binding:"required"`
	NomineeUserID string `json:"nomineeUserId" binding:"required"`
	VoteType      string `json:"voteType" binding:"required"`
}

// CastVote handles POST /events/:id/votes
func (h *VoteHandler) CastVote(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request CastVoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	awardID, err := primitive.ObjectIDFromHex(request.AwardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid awardId format"})
		return
	}
	nomineeID, err := primitive.ObjectIDFromHex(request.NomineeUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nomineeUserId format"})
		return
	}
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	vote, err := h.voteService.CastVote(c.Request.Context(), caller, services.CastVoteParams{
		EventID:       eventID,
		AwardID:       awardID,
		NomineeUserID: nomineeID,
		VoteType:      models.VoteType(request.VoteType),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vote)
}

// GetTally handles GET /events/:id/tally. Available in any phase; never
// mutates state.
func (h *VoteHandler) GetTally(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	tally, err := h.voteService.GetTally(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}
