package mongodb

import (
	"context"
	"time"

	"github.com/teamkudos/awards-backend/internal/apperrors"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VoteRepository implements the repositories.VoteRepository interface
type VoteRepository struct {
	collection *mongo.Collection
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *mongo.Database) repositories.VoteRepository {
	return &VoteRepository{
		collection: db.Collection("award_votes"),
	}
}

// Create inserts a vote. The collection holds a unique index on
// (eventId, awardId, voterUserId, voteType) — see pkg/mongodb — so a
// concurrent duplicate cast loses at the storage layer, not in a
// check-then-insert race here.
func (r *VoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	vote.Timestamp = time.Now()
	res, err := r.collection.InsertOne(ctx, vote)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.DuplicateVote("")
		}
		return err
	}
	vote.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEvent finds all votes for an event, oldest first
func (r *VoteRepository) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Vote, error) {
	return r.find(ctx, bson.M{"eventId": eventID})
}

// FindByAward finds all votes for one award within an event, oldest first
func (r *VoteRepository) FindByAward(ctx context.Context, eventID, awardID primitive.ObjectID) ([]*models.Vote, error) {
	return r.find(ctx, bson.M{"eventId": eventID, "awardId": awardID})
}

// CountByEvent counts votes for an event
func (r *VoteRepository) CountByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"eventId": eventID})
}

func (r *VoteRepository) find(ctx context.Context, filter bson.M) ([]*models.Vote, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var votes []*models.Vote
	if err := cursor.All(ctx, &votes); err != nil {
		return nil, err
	}
	if votes == nil {
		votes = []*models.Vote{}
	}
	return votes, nil
}
