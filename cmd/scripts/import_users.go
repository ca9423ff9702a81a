package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/teamkudos/awards-backend/internal/models"
	"github.com/teamkudos/awards-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Imports the user directory from a CSV export. Expected columns:
// name,email,roles,teams — roles and teams are |-separated, team names
// are created on first sight. Existing users (by email) are left alone.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "awards"
	}

	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)

	if err := importUsers(db, csvFilePath); err != nil {
		log.Fatalf("Failed to import users: %v", err)
	}

	log.Println("Users imported successfully")
}

func importUsers(db *mongo.Database, csvFilePath string) error {
	file, err := os.Open(csvFilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV file: %w", err)
	}
	if len(records) < 2 {
		return errors.New("CSV file has no data rows")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	users := db.Collection("users")
	teams := db.Collection("teams")
	teamIDs := map[string]primitive.ObjectID{}

	imported := 0
	for i, record := range records[1:] {
		if len(record) < 2 {
			log.Printf("Skipping row %d: expected at least name,email", i+2)
			continue
		}
		name := strings.TrimSpace(record[0])
		email := strings.TrimSpace(strings.ToLower(record[1]))
		if name == "" || email == "" {
			log.Printf("Skipping row %d: empty name or email", i+2)
			continue
		}

		roles := []models.Role{models.RoleUser}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			roles = nil
			for _, r := range strings.Split(record[2], "|") {
				roles = append(roles, models.Role(strings.TrimSpace(r)))
			}
		}

		var memberships []models.TeamMembership
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			for _, teamName := range strings.Split(record[3], "|") {
				teamName = strings.TrimSpace(teamName)
				if teamName == "" {
					continue
				}
				teamID, err := findOrCreateTeam(ctx, teams, teamIDs, teamName)
				if err != nil {
					return fmt.Errorf("row %d: %w", i+2, err)
				}
				memberships = append(memberships, models.TeamMembership{TeamID: teamID})
			}
		}

		user := models.User{
			Name:      name,
			Email:     email,
			Roles:     roles,
			Teams:     memberships,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		_, err := users.UpdateOne(ctx,
			bson.M{"email": email},
			bson.M{"$setOnInsert": user},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("row %d: failed to upsert user %s: %w", i+2, email, err)
		}
		imported++
	}

	log.Printf("Processed %d data rows", imported)
	return nil
}

func findOrCreateTeam(ctx context.Context, teams *mongo.Collection, cache map[string]primitive.ObjectID, name string) (primitive.ObjectID, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	var team models.Team
	err := teams.FindOne(ctx, bson.M{"name": name}).Decode(&team)
	if err == nil {
		cache[name] = team.ID
		return team.ID, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, fmt.Errorf("failed to look up team %s: %w", name, err)
	}

	res, err := teams.InsertOne(ctx, models.Team{Name: name, CreatedAt: time.Now()})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create team %s: %w", name, err)
	}
	id := res.InsertedID.(primitive.ObjectID)
	cache[name] = id
	return id, nil
}
