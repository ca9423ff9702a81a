package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/teamkudos/awards-backend/internal/config"
	"github.com/teamkudos/awards-backend/internal/handlers"
	"github.com/teamkudos/awards-backend/internal/middleware"
	"github.com/teamkudos/awards-backend/internal/models"
)

// HandlerDependencies bundles the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	EventHandler      *handlers.EventHandler
	NominationHandler *handlers.NominationHandler
	VoteHandler       *handlers.VoteHandler
	UserHandler       *handlers.UserHandler
	TeamHandler       *handlers.TeamHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		// Award event routes
		events := protected.Group("/events")
		{
			events.GET("", deps.EventHandler.ListEvents)
			events.POST("", deps.EventHandler.CreateEvent)
			events.GET("/:id", deps.EventHandler.GetEvent)
			events.PUT("/:id", deps.EventHandler.UpdateEvent)
			events.POST("/:id/advance", deps.EventHandler.AdvanceEvent)
			events.GET("/:id/winners", deps.EventHandler.GetWinners)
			events.GET("/:id/tally", deps.VoteHandler.GetTally)

			events.GET("/:id/nominations", deps.NominationHandler.ListNominations)
			events.POST("/:id/nominations", deps.NominationHandler.SubmitNomination)
			events.POST("/:id/votes", deps.VoteHandler.CastVote)

			events.POST("/:id/awards/:awardId/resolve",
				middleware.RequireRole(models.RoleAdministrator), deps.EventHandler.ResolveAward)
		}

		// User directory routes
		users := protected.Group("/users")
		{
			users.GET("/me", deps.UserHandler.GetMe)
			users.PUT("/me/profile", deps.UserHandler.UpdateProfile)
			users.GET("/:id", deps.UserHandler.GetUserByID)
			users.GET("", middleware.RequireRole(models.RoleAdministrator), deps.UserHandler.GetAllUsers)
			users.POST("", middleware.RequireRole(models.RoleAdministrator), deps.UserHandler.CreateUser)
		}

		// Team directory routes
		teams := protected.Group("/teams")
		{
			teams.GET("", deps.TeamHandler.GetAllTeams)
			teams.GET("/:id", deps.TeamHandler.GetTeamByID)
			teams.POST("", middleware.RequireRole(models.RoleAdministrator), deps.TeamHandler.CreateTeam)
		}
	}

	return router
}
