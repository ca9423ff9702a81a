package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/teamkudos/awards-backend/api/routes"
	"github.com/teamkudos/awards-backend/internal/config"
	"github.com/teamkudos/awards-backend/internal/handlers"
	mongorepo "github.com/teamkudos/awards-backend/internal/repositories/mongodb"
	"github.com/teamkudos/awards-backend/internal/services"
	"github.com/teamkudos/awards-backend/pkg/mongodb"
)

func main() {
	// A missing .env is fine, configuration falls back to the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// The unique vote index must exist before any write is served; it is
	// the constraint that makes concurrent duplicate casts lose.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndex()
	if err := mongodb.EnsureIndexes(indexCtx, db, cfg.Awards.DedupeNominations); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Repositories
	eventRepo := mongorepo.NewEventRepository(db)
	nominationRepo := mongorepo.NewNominationRepository(db)
	voteRepo := mongorepo.NewVoteRepository(db)
	userRepo := mongorepo.NewUserRepository(db)
	teamRepo := mongorepo.NewTeamRepository(db)

	// Services
	eventService := services.NewEventService(eventRepo, nominationRepo, voteRepo, teamRepo)
	nominationService := services.NewNominationService(nominationRepo, userRepo, eventService, cfg)
	voteService := services.NewVoteService(voteRepo, nominationRepo, userRepo, eventService)
	userService := services.NewUserService(userRepo)
	teamService := services.NewTeamService(teamRepo)
	authService := services.NewAuthService(userRepo, cfg)

	// Handlers
	deps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		EventHandler:      handlers.NewEventHandler(eventService),
		NominationHandler: handlers.NewNominationHandler(nominationService),
		VoteHandler:       handlers.NewVoteHandler(voteService),
		UserHandler:       handlers.NewUserHandler(userService),
		TeamHandler:       handlers.NewTeamHandler(teamService),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
