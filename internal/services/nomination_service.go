package services

import (
	"context"
	"strings"

	"github.com/teamkudos/awards-backend/internal/apperrors"
	"github.com/teamkudos/awards-backend/internal/config"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure NominationServiceImpl implements NominationService
var _ NominationService = (*NominationServiceImpl)(nil)

// NominationServiceImpl handles nomination ledger writes
type NominationServiceImpl struct {
	nominationRepo repositories.NominationRepository
	userRepo       repositories.UserRepository
	events         EventService
	cfg            *config.Config
}

// NewNominationService creates a new NominationServiceImpl
func NewNominationService(
	nominationRepo repositories.NominationRepository,
	userRepo repositories.UserRepository,
	events EventService,
	cfg *config.Config,
) *NominationServiceImpl {
	return &NominationServiceImpl{
		nominationRepo: nominationRepo,
		userRepo:       userRepo,
		events:         events,
		cfg:            cfg,
	}
}

// SubmitNomination appends a nomination to the ledger. The phase gate runs
// against the persisted event status at write time; duplicates are decided
// by the storage constraint (first wins) when the dedupe policy is on.
// There is no retry here: a rejected submission is reported as-is and the
// caller resubmits with corrected arguments.
func (s *NominationServiceImpl) SubmitNomination(ctx context.Context, caller models.Caller, params SubmitNominationParams) (*models.Nomination, error) {
	event, err := s.events.RequirePhase(ctx, params.EventID, models.EventStatusNominating)
	if err != nil {
		return nil, err
	}

	if event.FindAward(params.AwardID) == nil {
		return nil, apperrors.NotFound("award not found on event")
	}
	if strings.TrimSpace(params.Justification) == "" {
		return nil, apperrors.Validation("invalid nomination", map[string]string{"justification": "required"})
	}
	if params.NomineeUserID == caller.UserID && !s.cfg.Awards.AllowSelfNomination {
		return nil, apperrors.NotEligible("self-nomination is not allowed", event.Status)
	}

	nominee, err := s.userRepo.FindByID(ctx, params.NomineeUserID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.Validation("invalid nomination", map[string]string{"nomineeUserId": "unknown user"})
		}
		return nil, err
	}

	if event.EventType == models.EventTypeTeam {
		if !callerInTeam(caller, *event.TeamID) {
			return nil, apperrors.NotEligible("nominator is not a member of the event team", event.Status)
		}
		if !nominee.MemberOf(*event.TeamID) {
			return nil, apperrors.NotEligible("nominee is not a member of the event team", event.Status)
		}
	}

	nomination := &models.Nomination{
		EventID:         params.EventID,
		AwardID:         params.AwardID,
		NominatorUserID: caller.UserID,
		NomineeUserID:   params.NomineeUserID,
		Justification:   params.Justification,
	}

	if err := s.nominationRepo.Create(ctx, nomination); err != nil {
		if apperrors.Is(err, apperrors.KindDuplicateNomination) {
			return nil, apperrors.DuplicateNomination(event.Status)
		}
		slog.Error("Failed to create nomination", "error", err, "eventId", params.EventID, "awardId", params.AwardID)
		return nil, err
	}

	slog.Info("Nomination submitted", "eventId", params.EventID, "awardId", params.AwardID,
		"nominator", caller.UserID, "nominee", params.NomineeUserID)
	return nomination, nil
}

// ListByEvent returns all nominations of an event
func (s *NominationServiceImpl) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Nomination, error) {
	return s.nominationRepo.FindByEvent(ctx, eventID)
}

// ListByAward returns all nominations of one award within an event
func (s *NominationServiceImpl) ListByAward(ctx context.Context, eventID, awardID primitive.ObjectID) ([]*models.Nomination, error) {
	return s.nominationRepo.FindByAward(ctx, eventID, awardID)
}
