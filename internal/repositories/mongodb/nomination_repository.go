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

// NominationRepository implements the repositories.NominationRepository interface
type NominationRepository struct {
	collection *mongo.Collection
}

// NewNominationRepository creates a new NominationRepository
func NewNominationRepository(db *mongo.Database) repositories.NominationRepository {
	return &NominationRepository{
		collection: db.Collection("award_nominations"),
	}
}

// Create inserts a nomination. When the dedupe policy is enabled the
// collection holds a unique index on (eventId, awardId, nominatorUserId,
// nomineeUserId) and a repeat submission loses here, first wins.
func (r *NominationRepository) Create(ctx context.Context, nomination *models.Nomination) error {
	nomination.Timestamp = time.Now()
	res, err := r.collection.InsertOne(ctx, nomination)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.DuplicateNomination("")
		}
		return err
	}
	nomination.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEvent finds all nominations for an event, oldest first
func (r *NominationRepository) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Nomination, error) {
	return r.find(ctx, bson.M{"eventId": eventID})
}

// FindByAward finds all nominations for one award within an event, oldest first
func (r *NominationRepository) FindByAward(ctx context.Context, eventID, awardID primitive.ObjectID) ([]*models.Nomination, error) {
	return r.find(ctx, bson.M{"eventId": eventID, "awardId": awardID})
}

// ExistsForNominee reports whether the nominee has at least one nomination
// for the award in the event
func (r *NominationRepository) ExistsForNominee(ctx context.Context, eventID, awardID, nomineeUserID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"eventId":       eventID,
		"awardId":       awardID,
		"nomineeUserId": nomineeUserID,
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *NominationRepository) find(ctx context.Context, filter bson.M) ([]*models.Nomination, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var nominations []*models.Nomination
	if err := cursor.All(ctx, &nominations); err != nil {
		return nil, err
	}
	if nominations == nil {
		nominations = []*models.Nomination{}
	}
	return nominations, nil
}
