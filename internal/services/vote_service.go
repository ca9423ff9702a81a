package services

import (
	"context"

	"github.com/teamkudos/awards-backend/internal/apperrors"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure VoteServiceImpl implements VoteService
var _ VoteService = (*VoteServiceImpl)(nil)

// VoteServiceImpl handles vote ledger writes and the read-only tally
type VoteServiceImpl struct {
	voteRepo       repositories.VoteRepository
	nominationRepo repositories.NominationRepository
	userRepo       repositories.UserRepository
	events         EventService
}

// NewVoteService creates a new VoteServiceImpl
func NewVoteService(
	voteRepo repositories.VoteRepository,
	nominationRepo repositories.NominationRepository,
	userRepo repositories.UserRepository,
	events EventService,
) *VoteServiceImpl {
	return &VoteServiceImpl{
		voteRepo:       voteRepo,
		nominationRepo: nominationRepo,
		userRepo:       userRepo,
		events:         events,
	}
}

// CastVote appends a vote to the ledger. The phase gate re-checks the
// persisted event status, points derive from the vote type server-side,
// and the one-vote-per-voter-per-award-per-type invariant is enforced by
// the storage layer's unique constraint, so concurrent duplicate casts
// produce exactly one success.
func (s *VoteServiceImpl) CastVote(ctx context.Context, caller models.Caller, params CastVoteParams) (*models.Vote, error) {
	if !params.VoteType.IsValid() {
		return nil, apperrors.Validation("invalid vote", map[string]string{"voteType": "must be UserEndorsement or JudgeVote"})
	}

	event, err := s.events.RequirePhase(ctx, params.EventID, params.VoteType.VotingStatus())
	if err != nil {
		return nil, err
	}

	if event.FindAward(params.AwardID) == nil {
		return nil, apperrors.NotFound("award not found on event")
	}

	if err := s.checkVoterEligibility(ctx, caller, event, params); err != nil {
		return nil, err
	}

	nominated, err := s.nominationRepo.ExistsForNominee(ctx, params.EventID, params.AwardID, params.NomineeUserID)
	if err != nil {
		return nil, err
	}
	if !nominated {
		return nil, apperrors.Validation("invalid vote", map[string]string{"nomineeUserId": "no nomination for this award"})
	}

	vote := &models.Vote{
		EventID:       params.EventID,
		AwardID:       params.AwardID,
		NomineeUserID: params.NomineeUserID,
		VoterUserID:   caller.UserID,
		VoteType:      params.VoteType,
		PointsAwarded: params.VoteType.Points(),
	}

	if err := s.voteRepo.Create(ctx, vote); err != nil {
		if apperrors.Is(err, apperrors.KindDuplicateVote) {
			return nil, apperrors.DuplicateVote(event.Status)
		}
		slog.Error("Failed to create vote", "error", err, "eventId", params.EventID, "awardId", params.AwardID)
		return nil, err
	}

	slog.Info("Vote cast", "eventId", params.EventID, "awardId", params.AwardID,
		"voter", caller.UserID, "nominee", params.NomineeUserID, "type", params.VoteType, "points", vote.PointsAwarded)
	return vote, nil
}

// GetTally aggregates the current vote ledger. Read-only and available in
// any phase, so partial totals are visible for transparency before
// Decision.
func (s *VoteServiceImpl) GetTally(ctx context.Context, eventID primitive.ObjectID) ([]AwardTally, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	votes, err := s.voteRepo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return ComputeTally(event, votes), nil
}

func (s *VoteServiceImpl) checkVoterEligibility(ctx context.Context, caller models.Caller, event *models.AwardEvent, params CastVoteParams) error {
	if params.VoteType == models.VoteTypeJudgeVote {
		if !event.IsJudge(caller.UserID) {
			return apperrors.NotEligible("voter is not a judge of this event", event.Status)
		}
		return nil
	}

	if params.NomineeUserID == caller.UserID {
		return apperrors.NotEligible("voting for yourself is not allowed", event.Status)
	}
	if event.EventType == models.EventTypeTeam {
		if !callerInTeam(caller, *event.TeamID) {
			return apperrors.NotEligible("voter is not a member of the event team", event.Status)
		}
		nominee, err := s.userRepo.FindByID(ctx, params.NomineeUserID)
		if err != nil {
			if apperrors.Is(err, apperrors.KindNotFound) {
				return apperrors.Validation("invalid vote", map[string]string{"nomineeUserId": "unknown user"})
			}
			return err
		}
		if !nominee.MemberOf(*event.TeamID) {
			return apperrors.NotEligible("nominee is not a member of the event team", event.Status)
		}
	}
	return nil
}
