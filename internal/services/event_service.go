package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teamkudos/awards-backend/internal/apperrors"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure EventServiceImpl implements EventService
var _ EventService = (*EventServiceImpl)(nil)

// EventServiceImpl is the lifecycle manager. It is the only writer of
// event status and award winner fields; the ledger services go through
// RequirePhase for their write gate.
type EventServiceImpl struct {
	eventRepo      repositories.EventRepository
	nominationRepo repositories.NominationRepository
	voteRepo       repositories.VoteRepository
	teamRepo       repositories.TeamRepository
}

// NewEventService creates a new EventServiceImpl
func NewEventService(
	eventRepo repositories.EventRepository,
	nominationRepo repositories.NominationRepository,
	voteRepo repositories.VoteRepository,
	teamRepo repositories.TeamRepository,
) *EventServiceImpl {
	return &EventServiceImpl{
		eventRepo:      eventRepo,
		nominationRepo: nominationRepo,
		voteRepo:       voteRepo,
		teamRepo:       teamRepo,
	}
}

// CreateEvent creates an award event in Draft
func (s *EventServiceImpl) CreateEvent(ctx context.Context, caller models.Caller, params CreateEventParams) (*models.AwardEvent, error) {
	fields := map[string]string{}
	if strings.TrimSpace(params.Name) == "" {
		fields["name"] = "required"
	}
	if params.EventType != models.EventTypeMain && params.EventType != models.EventTypeTeam {
		fields["eventType"] = "must be Main or Team"
	}
	if params.EventType == models.EventTypeTeam && params.TeamID == nil {
		fields["teamId"] = "required for Team events"
	}
	if params.EventType == models.EventTypeMain && params.TeamID != nil {
		fields["teamId"] = "only allowed for Team events"
	}
	for i, a := range params.Awards {
		if strings.TrimSpace(a.Name) == "" {
			fields[fmt.Sprintf("awards[%d].name", i)] = "required"
		}
		if a.Points < 0 {
			fields[fmt.Sprintf("awards[%d].points", i)] = "must not be negative"
		}
	}
	validatePhaseDates(params.NominationStart, params.NominationEnd, params.UserVotingEnd, params.JudgeVotingEnd, fields)
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid event", fields)
	}

	if params.TeamID != nil {
		if _, err := s.teamRepo.FindByID(ctx, *params.TeamID); err != nil {
			return nil, err
		}
		if !callerInTeam(caller, *params.TeamID) && !caller.IsAdmin() {
			return nil, apperrors.NotEligible("only a team member or an Administrator may create an event for this team", "")
		}
	}

	awards := make([]models.Award, 0, len(params.Awards))
	for _, a := range params.Awards {
		awards = append(awards, models.Award{
			AwardID:     primitive.NewObjectID(),
			Name:        a.Name,
			Description: a.Description,
			Points:      a.Points,
		})
	}

	event := &models.AwardEvent{
		Name:             params.Name,
		EventType:        params.EventType,
		Status:           models.EventStatusDraft,
		CreatorUserID:    caller.UserID,
		TeamID:           params.TeamID,
		MainJudgeUserID:  params.MainJudgeUserID,
		AssignedJudgeIDs: params.AssignedJudgeIDs,
		NominationStart:  params.NominationStart,
		NominationEnd:    params.NominationEnd,
		UserVotingEnd:    params.UserVotingEnd,
		JudgeVotingEnd:   params.JudgeVotingEnd,
		Awards:           awards,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		slog.Error("Failed to create award event", "error", err)
		return nil, fmt.Errorf("failed to create award event: %w", err)
	}

	slog.Info("Award event created", "eventId", event.ID, "type", event.EventType, "awards", len(event.Awards))
	return event, nil
}

// GetEvent returns an award event by id
func (s *EventServiceImpl) GetEvent(ctx context.Context, eventID primitive.ObjectID) (*models.AwardEvent, error) {
	return s.eventRepo.FindByID(ctx, eventID)
}

// ListEvents returns award events with pagination and optional filters
func (s *EventServiceImpl) ListEvents(ctx context.Context, page, limit int, status models.EventStatus, eventType models.EventType) ([]*models.AwardEvent, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.eventRepo.FindAll(ctx, page, limit, status, eventType)
}

// UpdateEvent applies metadata edits to a Draft event. Once an event has
// left Draft its definition is frozen; only lifecycle transitions and the
// Decision-stage manual resolution mutate it after that.
func (s *EventServiceImpl) UpdateEvent(ctx context.Context, caller models.Caller, eventID primitive.ObjectID, params UpdateEventParams) (*models.AwardEvent, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := requireAdvancePermission(caller, event); err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusDraft {
		return nil, apperrors.PhaseViolation("event can only be edited while in Draft", event.Status)
	}

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, apperrors.Validation("invalid event", map[string]string{"name": "required"})
		}
		event.Name = *params.Name
	}
	if params.MainJudgeUserID != nil {
		event.MainJudgeUserID = params.MainJudgeUserID
	}
	if params.AssignedJudgeIDs != nil {
		event.AssignedJudgeIDs = params.AssignedJudgeIDs
	}
	if params.NominationStart != nil {
		event.NominationStart = params.NominationStart
	}
	if params.NominationEnd != nil {
		event.NominationEnd = params.NominationEnd
	}
	if params.UserVotingEnd != nil {
		event.UserVotingEnd = params.UserVotingEnd
	}
	if params.JudgeVotingEnd != nil {
		event.JudgeVotingEnd = params.JudgeVotingEnd
	}
	if params.Awards != nil {
		awards := make([]models.Award, 0, len(params.Awards))
		for i, a := range params.Awards {
			if strings.TrimSpace(a.Name) == "" {
				return nil, apperrors.Validation("invalid event", map[string]string{fmt.Sprintf("awards[%d].name", i): "required"})
			}
			awards = append(awards, models.Award{
				AwardID:     primitive.NewObjectID(),
				Name:        a.Name,
				Description: a.Description,
				Points:      a.Points,
			})
		}
		event.Awards = awards
	}

	fields := map[string]string{}
	validatePhaseDates(event.NominationStart, event.NominationEnd, event.UserVotingEnd, event.JudgeVotingEnd, fields)
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid phase dates", fields)
	}

	// The replace is conditioned on the event still being in Draft, so a
	// concurrent advance wins the race instead of having its transition
	// silently written back.
	if err := s.eventRepo.Update(ctx, event, models.EventStatusDraft); err != nil {
		return nil, err
	}
	return event, nil
}

// AdvanceEvent atomically moves the event from expectedStatus to the next
// status in the linear lifecycle. Exactly one of two racing callers with
// the same expectation succeeds; the other gets StaleState and must
// re-read. Entering Decision runs the tally synchronously and persists
// the winners in the same atomic write, so Decision is never observable
// half-resolved.
func (s *EventServiceImpl) AdvanceEvent(ctx context.Context, caller models.Caller, eventID primitive.ObjectID, expectedStatus models.EventStatus, force bool) (*models.AwardEvent, error) {
	if !expectedStatus.IsValid() {
		return nil, apperrors.Validation("invalid status", map[string]string{"expectedStatus": "unknown status"})
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := requireAdvancePermission(caller, event); err != nil {
		return nil, err
	}
	if event.Status != expectedStatus {
		return nil, apperrors.StaleState(expectedStatus, event.Status)
	}

	next, ok := expectedStatus.Next()
	if !ok {
		return nil, apperrors.Precondition("event is already completed", event.Status)
	}

	if err := s.checkAdvancePreconditions(event, expectedStatus, next, caller, force); err != nil {
		return nil, err
	}

	if next == models.EventStatusDecision {
		return s.advanceToDecision(ctx, event, expectedStatus)
	}

	if err := s.eventRepo.AdvanceStatus(ctx, eventID, expectedStatus, next); err != nil {
		return nil, err
	}
	event.Status = next
	slog.Info("Award event advanced", "eventId", eventID, "from", expectedStatus, "to", next)
	return event, nil
}

// advanceToDecision tallies the vote ledger and writes status plus winners
// in one compare-and-set update. A vote that passed the phase gate while
// the status was still JudgeVoting can land in the ledger between the
// ledger read and the status write; the recount after the write picks such
// casts up and retallies once, now that the closed gate admits no more.
func (s *EventServiceImpl) advanceToDecision(ctx context.Context, event *models.AwardEvent, expected models.EventStatus) (*models.AwardEvent, error) {
	votes, err := s.voteRepo.FindByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read vote ledger: %w", err)
	}

	resolved := resolveAwards(event, votes, time.Now())
	if err := s.eventRepo.AdvanceToDecision(ctx, event.ID, expected, resolved); err != nil {
		return nil, err
	}
	event.Status = models.EventStatusDecision
	event.Awards = resolved

	count, err := s.voteRepo.CountByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to recount vote ledger: %w", err)
	}
	if count != int64(len(votes)) {
		slog.Warn("Late votes landed during decision, retallying",
			"eventId", event.ID, "tallied", len(votes), "ledger", count)
		votes, err = s.voteRepo.FindByEvent(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read vote ledger: %w", err)
		}
		event.Awards = resolveAwards(event, votes, time.Now())
		if err := s.eventRepo.Update(ctx, event, models.EventStatusDecision); err != nil {
			return nil, err
		}
	}

	slog.Info("Award event resolved", "eventId", event.ID, "awards", len(event.Awards), "votes", len(votes))
	return event, nil
}

// resolveAwards computes the tally over the ledger and stamps the winner
// fields onto a fresh copy of the event's awards. Awards the tie-break
// chain cannot decide keep empty winner fields.
func resolveAwards(event *models.AwardEvent, votes []*models.Vote, now time.Time) []models.Award {
	tallies := ComputeTally(event, votes)
	resolved := make([]models.Award, len(event.Awards))
	copy(resolved, event.Awards)
	for i := range resolved {
		resolved[i].WinnerUserID = nil
		resolved[i].WinnerSelectionTimestamp = nil
		for _, t := range tallies {
			if t.AwardID != resolved[i].AwardID {
				continue
			}
			if t.WinnerUserID != nil {
				winner := *t.WinnerUserID
				ts := now
				resolved[i].WinnerUserID = &winner
				resolved[i].WinnerSelectionTimestamp = &ts
			}
			break
		}
	}
	return resolved
}

// ResolveAward records an Administrator's manual decision for an award the
// tie-break chain left unresolved. Legal only while the event is in
// Decision.
func (s *EventServiceImpl) ResolveAward(ctx context.Context, caller models.Caller, eventID, awardID, winnerUserID primitive.ObjectID) (*models.AwardEvent, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.ForbiddenTransition("only an Administrator may resolve an award manually", "")
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusDecision {
		return nil, apperrors.PhaseViolation("awards can only be resolved manually while the event is in Decision", event.Status)
	}

	award := event.FindAward(awardID)
	if award == nil {
		return nil, apperrors.NotFound("award not found on event")
	}
	if award.Resolved() {
		return nil, apperrors.Precondition("award already has a winner", event.Status)
	}

	nominated, err := s.nominationRepo.ExistsForNominee(ctx, eventID, awardID, winnerUserID)
	if err != nil {
		return nil, err
	}
	if !nominated {
		return nil, apperrors.Validation("winner must be a nominee of this award", map[string]string{"winnerUserId": "no nomination for this award"})
	}

	now := time.Now()
	award.WinnerUserID = &winnerUserID
	award.WinnerSelectionTimestamp = &now
	if err := s.eventRepo.ResolveAward(ctx, eventID, *award); err != nil {
		return nil, err
	}

	slog.Info("Award resolved manually", "eventId", eventID, "awardId", awardID, "winner", winnerUserID, "by", caller.UserID)
	return event, nil
}

// GetWinners returns the per-award outcomes. Valid only once the event has
// reached Decision.
func (s *EventServiceImpl) GetWinners(ctx context.Context, eventID primitive.ObjectID) ([]AwardResult, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusDecision && event.Status != models.EventStatusCompleted {
		return nil, apperrors.Precondition("winners are not available before Decision", event.Status)
	}

	results := make([]AwardResult, 0, len(event.Awards))
	for _, a := range event.Awards {
		results = append(results, AwardResult{
			AwardID:                  a.AwardID,
			AwardName:                a.Name,
			WinnerUserID:             a.WinnerUserID,
			WinnerSelectionTimestamp: a.WinnerSelectionTimestamp,
			Unresolved:               !a.Resolved(),
		})
	}
	return results, nil
}

// RequirePhase is the write gate for the ledgers: it re-reads the event
// and rejects unless its persisted status equals phase.
func (s *EventServiceImpl) RequirePhase(ctx context.Context, eventID primitive.ObjectID, phase models.EventStatus) (*models.AwardEvent, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != phase {
		return nil, apperrors.PhaseViolation(fmt.Sprintf("operation requires event status %s", phase), event.Status)
	}
	return event, nil
}

// checkAdvancePreconditions enforces the structural requirements of the
// target status and the closing rules of the phase being left.
func (s *EventServiceImpl) checkAdvancePreconditions(event *models.AwardEvent, leaving, next models.EventStatus, caller models.Caller, force bool) error {
	switch next {
	case models.EventStatusNominating:
		if len(event.Awards) == 0 {
			return apperrors.Precondition("event needs at least one award before nominations open", event.Status)
		}
	case models.EventStatusJudgeVoting:
		if !event.HasJudges() {
			return apperrors.Precondition("event needs an assigned judge before judge voting opens", event.Status)
		}
	}

	// Leaving a timed phase requires its deadline to have passed, unless an
	// Administrator closes it early.
	end := event.PhaseEnd(leaving)
	if end == nil || !time.Now().Before(*end) {
		return nil
	}
	if force {
		if caller.IsAdmin() {
			return nil
		}
		return apperrors.ForbiddenTransition("only an Administrator may close a phase early", event.Status)
	}
	return apperrors.Precondition(fmt.Sprintf("%s phase is open until %s", leaving, end.Format(time.RFC3339)), event.Status)
}

// requireAdvancePermission allows only the event creator or an
// Administrator to mutate event state.
func requireAdvancePermission(caller models.Caller, event *models.AwardEvent) error {
	if caller.UserID == event.CreatorUserID || caller.IsAdmin() {
		return nil
	}
	return apperrors.ForbiddenTransition("only the event creator or an Administrator may advance this event", event.Status)
}

func callerInTeam(caller models.Caller, teamID primitive.ObjectID) bool {
	for _, id := range caller.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// validatePhaseDates checks that the configured phase boundaries are
// monotonically non-decreasing in phase order, recording violations into
// fields. Absent dates are skipped.
func validatePhaseDates(nominationStart, nominationEnd, userVotingEnd, judgeVotingEnd *time.Time, fields map[string]string) {
	ordered := []struct {
		name string
		ts   *time.Time
	}{
		{"nominationStart", nominationStart},
		{"nominationEnd", nominationEnd},
		{"userVotingEnd", userVotingEnd},
		{"judgeVotingEnd", judgeVotingEnd},
	}

	var prevName string
	var prev *time.Time
	for _, entry := range ordered {
		if entry.ts == nil {
			continue
		}
		if prev != nil && entry.ts.Before(*prev) {
			fields[entry.name] = fmt.Sprintf("must not be before %s", prevName)
		}
		prevName = entry.name
		prev = entry.ts
	}
}
