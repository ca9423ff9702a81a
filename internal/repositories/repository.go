package repositories

import (
	"context"

	"github.com/teamkudos/awards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventRepository defines the interface for award event data operations.
// Every write that could race a lifecycle transition is a compare-and-set
// on the expected status: AdvanceStatus and AdvanceToDecision are the only
// status writers, Update replaces the document only while it still holds
// the expected status, and a stale expectation yields a StaleState error,
// never a silent double-advance or a status reversal.
type EventRepository interface {
	Create(ctx context.Context, event *models.AwardEvent) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AwardEvent, error)
	FindAll(ctx context.Context, page, limit int, status models.EventStatus, eventType models.EventType) ([]*models.AwardEvent, error)
	Update(ctx context.Context, event *models.AwardEvent, expected models.EventStatus) error
	AdvanceStatus(ctx context.Context, id primitive.ObjectID, expected, next models.EventStatus) error
	AdvanceToDecision(ctx context.Context, id primitive.ObjectID, expected models.EventStatus, awards []models.Award) error
	ResolveAward(ctx context.Context, id primitive.ObjectID, award models.Award) error
	Count(ctx context.Context) (int64, error)
}

// NominationRepository defines the interface for the append-only nomination
// ledger. There is no update or delete.
type NominationRepository interface {
	Create(ctx context.Context, nomination *models.Nomination) error
	FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Nomination, error)
	FindByAward(ctx context.Context, eventID, awardID primitive.ObjectID) ([]*models.Nomination, error)
	ExistsForNominee(ctx context.Context, eventID, awardID, nomineeUserID primitive.ObjectID) (bool, error)
}

// VoteRepository defines the interface for the append-only vote ledger.
// Create must enforce uniqueness of (eventId, awardId, voterUserId,
// voteType) atomically at the storage level and report a violation as a
// DuplicateVote error.
type VoteRepository interface {
	Create(ctx context.Context, vote *models.Vote) error
	FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Vote, error)
	FindByAward(ctx context.Context, eventID, awardID primitive.ObjectID) ([]*models.Vote, error)
	CountByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
}

// UserRepository defines the interface for user directory operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

// TeamRepository defines the interface for team directory operations
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	FindAll(ctx context.Context) ([]*models.Team, error)
}
