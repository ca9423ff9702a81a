package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamkudos/awards-backend/internal/apperrors"
)

// writeError maps the error taxonomy onto HTTP statuses. Every rejected
// write reports its kind and, when known, the authoritative current event
// status so the caller can decide whether a retry makes sense.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindForbiddenTransition, apperrors.KindNotEligible:
		status = http.StatusForbidden
	case apperrors.KindPhaseViolation, apperrors.KindStaleState,
		apperrors.KindDuplicateVote, apperrors.KindDuplicateNomination:
		status = http.StatusConflict
	case apperrors.KindPrecondition:
		status = http.StatusUnprocessableEntity
	}

	body := gin.H{"error": appErr.Message, "kind": appErr.Kind}
	if appErr.CurrentStatus != "" {
		body["currentStatus"] = appErr.CurrentStatus
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(status, body)
}
