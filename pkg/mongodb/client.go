package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client represents a MongoDB client
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient creates a new MongoDB client
func NewClient(uri string) (*Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		return nil, err
	}

	// Check the connection
	err = client.Ping(context.Background(), nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: client,
	}, nil
}

// Database returns a database
func (c *Client) Database(name string) *mongo.Database {
	if c.db == nil || c.db.Name() != name {
		c.db = c.client.Database(name)
	}
	return c.db
}

// Disconnect disconnects from MongoDB
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the ledgers rely on. The unique vote
// index is the storage-level constraint that makes concurrent duplicate
// casts lose atomically; it must exist before the API serves writes. The
// nomination uniqueness index is created only when the dedupe policy is on.
func EnsureIndexes(ctx context.Context, db *mongo.Database, dedupeNominations bool) error {
	voteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "eventId", Value: 1},
				{Key: "awardId", Value: 1},
				{Key: "voterUserId", Value: 1},
				{Key: "voteType", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_vote_per_voter_per_award"),
		},
		{
			Keys: bson.D{
				{Key: "eventId", Value: 1},
				{Key: "awardId", Value: 1},
			},
			Options: options.Index().SetName("votes_by_award"),
		},
	}
	if _, err := db.Collection("award_votes").Indexes().CreateMany(ctx, voteIndexes); err != nil {
		return err
	}

	nominationIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "eventId", Value: 1},
				{Key: "awardId", Value: 1},
			},
			Options: options.Index().SetName("nominations_by_award"),
		},
	}
	if dedupeNominations {
		nominationIndexes = append(nominationIndexes, mongo.IndexModel{
			Keys: bson.D{
				{Key: "eventId", Value: 1},
				{Key: "awardId", Value: 1},
				{Key: "nominatorUserId", Value: 1},
				{Key: "nomineeUserId", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_nomination_first_wins"),
		})
	}
	if _, err := db.Collection("award_nominations").Indexes().CreateMany(ctx, nominationIndexes); err != nil {
		return err
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_email"),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}

	eventIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "eventType", Value: 1},
			},
			Options: options.Index().SetName("events_by_status_type"),
		},
		{
			Keys: bson.D{
				{Key: "teamId", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("events_by_team"),
		},
	}
	_, err := db.Collection("award_events").Indexes().CreateMany(ctx, eventIndexes)
	return err
}
