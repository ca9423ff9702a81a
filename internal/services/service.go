package services

import (
	"context"
	"time"

	"github.com/teamkudos/awards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AwardParams describes one award inside a CreateEventParams payload
type AwardParams struct {
	Name        string
	Description string
	Points      int
}

// CreateEventParams carries the fields for creating an award event
type CreateEventParams struct {
	Name             string
	EventType        models.EventType
	TeamID           *primitive.ObjectID
	MainJudgeUserID  *primitive.ObjectID
	AssignedJudgeIDs []primitive.ObjectID
	NominationStart  *time.Time
	NominationEnd    *time.Time
	UserVotingEnd    *time.Time
	JudgeVotingEnd   *time.Time
	Awards           []AwardParams
}

// UpdateEventParams carries the Draft-stage metadata edits for an event.
// Nil pointers leave the corresponding field untouched.
type UpdateEventParams struct {
	Name             *string
	MainJudgeUserID  *primitive.ObjectID
	AssignedJudgeIDs []primitive.ObjectID
	NominationStart  *time.Time
	NominationEnd    *time.Time
	UserVotingEnd    *time.Time
	JudgeVotingEnd   *time.Time
	Awards           []AwardParams
}

// EventService is the lifecycle manager: it owns event status and the
// winner fields, gates every ledger write through RequirePhase, and runs
// the tally when an event enters Decision.
type EventService interface {
	CreateEvent(ctx context.Context, caller models.Caller, params CreateEventParams) (*models.AwardEvent, error)
	GetEvent(ctx context.Context, eventID primitive.ObjectID) (*models.AwardEvent, error)
	ListEvents(ctx context.Context, page, limit int, status models.EventStatus, eventType models.EventType) ([]*models.AwardEvent, error)
	UpdateEvent(ctx context.Context, caller models.Caller, eventID primitive.ObjectID, params UpdateEventParams) (*models.AwardEvent, error)
	AdvanceEvent(ctx context.Context, caller models.Caller, eventID primitive.ObjectID, expectedStatus models.EventStatus, force bool) (*models.AwardEvent, error)
	ResolveAward(ctx context.Context, caller models.Caller, eventID, awardID, winnerUserID primitive.ObjectID) (*models.AwardEvent, error)
	GetWinners(ctx context.Context, eventID primitive.ObjectID) ([]AwardResult, error)
	// RequirePhase re-reads the event and fails with PhaseViolation unless
	// its persisted status equals phase. Every ledger write funnels through
	// this gate at write time, never through a status the caller read
	// earlier.
	RequirePhase(ctx context.Context, eventID primitive.ObjectID, phase models.EventStatus) (*models.AwardEvent, error)
}

// SubmitNominationParams carries the fields for submitting a nomination
type SubmitNominationParams struct {
	EventID       primitive.ObjectID
	AwardID       primitive.ObjectID
	NomineeUserID primitive.ObjectID
	Justification string
}

// NominationService handles the nomination ledger
type NominationService interface {
	SubmitNomination(ctx context.Context, caller models.Caller, params SubmitNominationParams) (*models.Nomination, error)
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Nomination, error)
	ListByAward(ctx context.Context, eventID, awardID primitive.ObjectID) ([]*models.Nomination, error)
}

// CastVoteParams carries the fields for casting a vote. Points are never
// part of the payload, they derive from VoteType server-side.
type CastVoteParams struct {
	EventID       primitive.ObjectID
	AwardID       primitive.ObjectID
	NomineeUserID primitive.ObjectID
	VoteType      models.VoteType
}

// VoteService handles the vote ledger and the read-only tally
type VoteService interface {
	CastVote(ctx context.Context, caller models.Caller, params CastVoteParams) (*models.Vote, error)
	GetTally(ctx context.Context, eventID primitive.ObjectID) ([]AwardTally, error)
}

// UpdateProfileParams carries the profile-completion fields a user may set
// on themselves. Nil pointers leave the corresponding field untouched.
type UpdateProfileParams struct {
	Name     *string
	Manager  *string
	TeamRole *string
	Teams    []models.TeamMembership
}

// UserService handles user directory operations
type UserService interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListUsers(ctx context.Context, page, limit int) ([]*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, params UpdateProfileParams) (*models.User, error)
}

// TeamService handles team directory operations
type TeamService interface {
	CreateTeam(ctx context.Context, name string) (*models.Team, error)
	GetTeam(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
}

// AuthService handles registration and login
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}
