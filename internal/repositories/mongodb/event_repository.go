package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/teamkudos/awards-backend/internal/apperrors"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository implements the repositories.EventRepository interface
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *mongo.Database) repositories.EventRepository {
	return &EventRepository{
		collection: db.Collection("award_events"),
	}
}

// Create creates a new award event
func (r *EventRepository) Create(ctx context.Context, event *models.AwardEvent) error {
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return err
	}
	event.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds an award event by ID
func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AwardEvent, error) {
	var event models.AwardEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("award event not found")
		}
		return nil, err
	}
	return &event, nil
}

// FindAll finds award events with pagination and optional status/type filters
func (r *EventRepository) FindAll(ctx context.Context, page, limit int, status models.EventStatus, eventType models.EventType) ([]*models.AwardEvent, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if eventType != "" {
		filter["eventType"] = eventType
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.AwardEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.AwardEvent{}
	}
	return events, nil
}

// Update replaces an award event document, but only while it still holds
// the expected status. The filter makes the replace a compare-and-set: a
// lifecycle advance landing between the caller's read and this write wins,
// and the replace loses with StaleState instead of silently writing the
// old status back.
func (r *EventRepository) Update(ctx context.Context, event *models.AwardEvent, expected models.EventStatus) error {
	event.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": event.ID, "status": expected}, event)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.staleOrMissing(ctx, event.ID, expected)
	}
	return nil
}

// AdvanceStatus atomically moves the event from expected to next. The
// filter matches on the expected status, so when two callers race exactly
// one update matches and the loser gets a StaleState error with the status
// the winner wrote.
func (r *EventRepository) AdvanceStatus(ctx context.Context, id primitive.ObjectID, expected, next models.EventStatus) error {
	update := bson.M{"$set": bson.M{"status": next, "updatedAt": time.Now()}}
	return r.compareAndSet(ctx, id, expected, update)
}

// AdvanceToDecision atomically moves the event from expected into Decision
// and writes the resolved awards array in the same single-document update,
// so Decision is never observable without winners.
func (r *EventRepository) AdvanceToDecision(ctx context.Context, id primitive.ObjectID, expected models.EventStatus, awards []models.Award) error {
	update := bson.M{"$set": bson.M{
		"status":    models.EventStatusDecision,
		"awards":    awards,
		"updatedAt": time.Now(),
	}}
	return r.compareAndSet(ctx, id, expected, update)
}

// ResolveAward writes the winner fields of one embedded award. The filter
// requires Decision status and an award that has no winner yet, so two
// racing resolutions cannot both land: the first write resolves the award
// and the second finds nothing to match. Winners are never edited in
// place.
func (r *EventRepository) ResolveAward(ctx context.Context, id primitive.ObjectID, award models.Award) error {
	filter := bson.M{
		"_id":    id,
		"status": models.EventStatusDecision,
		"awards": bson.M{"$elemMatch": bson.M{
			"awardId":      award.AwardID,
			"winnerUserId": bson.M{"$exists": false},
		}},
	}
	update := bson.M{"$set": bson.M{
		"awards.$":  award,
		"updatedAt": time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.resolveAwardConflict(ctx, id, award.AwardID)
	}
	return nil
}

// resolveAwardConflict classifies a lost ResolveAward write by re-reading
// the document: the event may be gone, out of Decision, missing the award,
// or the award may already carry a winner written by a rival resolution.
func (r *EventRepository) resolveAwardConflict(ctx context.Context, id, awardID primitive.ObjectID) error {
	var event models.AwardEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("award event not found")
		}
		return err
	}
	if event.Status != models.EventStatusDecision {
		return apperrors.StaleState(models.EventStatusDecision, event.Status)
	}
	if event.FindAward(awardID) == nil {
		return apperrors.NotFound("award not found on event")
	}
	return apperrors.Precondition("award already has a winner", event.Status)
}

// Count counts all award events
func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *EventRepository) compareAndSet(ctx context.Context, id primitive.ObjectID, expected models.EventStatus, update bson.M) error {
	filter := bson.M{"_id": id, "status": expected}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.staleOrMissing(ctx, id, expected)
	}
	return nil
}

// staleOrMissing distinguishes a lost compare-and-set from a missing
// document by re-reading the current status.
func (r *EventRepository) staleOrMissing(ctx context.Context, id primitive.ObjectID, expected models.EventStatus) error {
	var event models.AwardEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("award event not found")
		}
		return err
	}
	return apperrors.StaleState(expected, event.Status)
}
