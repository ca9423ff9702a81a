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

// TeamRepository implements the repositories.TeamRepository interface
type TeamRepository struct {
	collection *mongo.Collection
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *mongo.Database) repositories.TeamRepository {
	return &TeamRepository{
		collection: db.Collection("teams"),
	}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	team.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, team)
	if err != nil {
		return err
	}
	team.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a team by ID
func (r *TeamRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("team not found")
		}
		return nil, err
	}
	return &team, nil
}

// FindAll finds all teams sorted by name
func (r *TeamRepository) FindAll(ctx context.Context) ([]*models.Team, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var teams []*models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []*models.Team{}
	}
	return teams, nil
}
