package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamkudos/awards-backend/internal/middleware"
	"github.com/teamkudos/awards-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NominationHandler handles nomination HTTP requests
type NominationHandler struct {
	nominationService services.NominationService
}

// NewNominationHandler creates a new NominationHandler
func NewNominationHandler(nominationService services.NominationService) *NominationHandler {
	return &NominationHandler{
		nominationService: nominationService,
	}
}

// SubmitNominationRequest is the payload for POST /events/:id/nominations
type SubmitNominationRequest struct {
	AwardID       string `json:"awardId" binding:"required"`
	NomineeUserID string `json:"nomineeUserId" binding:"required"`
	Justification string `json:"justification" binding:"required"`
}

// SubmitNomination handles POST /events/:id/nominations
func (h *NominationHandler) SubmitNomination(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request SubmitNominationRequest
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

	nomination, err := h.nominationService.SubmitNomination(c.Request.Context(), caller, services.SubmitNominationParams{
		EventID:       eventID,
		AwardID:       awardID,
		NomineeUserID: nomineeID,
		Justification: request.Justification,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, nomination)
}

// ListNominations handles GET /events/:id/nominations with an optional
// awardId filter
func (h *NominationHandler) ListNominations(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if raw := c.Query("awardId"); raw != "" {
		awardID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid awardId format"})
			return
		}
		nominations, err := h.nominationService.ListByAward(c.Request.Context(), eventID, awardID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, nominations)
		return
	}

	nominations, err := h.nominationService.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nominations)
}
