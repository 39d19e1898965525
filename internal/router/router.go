package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizroom/quizroom-backend/internal/config"
	"github.com/quizroom/quizroom-backend/internal/handler"
	"github.com/quizroom/quizroom-backend/internal/middleware"
	"github.com/quizroom/quizroom-backend/internal/response"
	"github.com/quizroom/quizroom-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Room       *handler.RoomHandler
	Invitation *handler.InvitationHandler
	Quiz       *handler.QuizHandler
	Question   *handler.QuestionHandler
	Attempt    *handler.AttemptHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Authenticated API ──────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		// Rooms and membership
		api.POST("/rooms", handlers.Room.Create)
		api.GET("/rooms", handlers.Room.List)
		api.POST("/rooms/join", handlers.Room.Join)
		api.GET("/rooms/:code", handlers.Room.Detail)
		api.DELETE("/rooms/:code", handlers.Room.Delete)
		api.DELETE("/rooms/:code/members/:userId", handlers.Room.RemoveMember)
		api.PUT("/rooms/:code/members/:userId/role", handlers.Room.ChangeRole)

		// Invitations
		api.POST("/rooms/:code/invitations", handlers.Invitation.Invite)
		api.GET("/invitations", handlers.Invitation.ListMine)
		api.POST("/invitations/:id/accept", handlers.Invitation.Respond(service.InvitationActionAccept))
		api.POST("/invitations/:id/decline", handlers.Invitation.Respond(service.InvitationActionDecline))

		// Quiz authoring and lobby
		api.POST("/quizzes", handlers.Quiz.Create)
		api.GET("/quizzes", handlers.Quiz.ListMine)
		api.GET("/quizzes/lobby", handlers.Quiz.Lobby)
		api.GET("/quizzes/:id", handlers.Quiz.Get)
		api.PUT("/quizzes/:id", handlers.Quiz.Update)
		api.DELETE("/quizzes/:id", handlers.Quiz.Delete)
		api.POST("/quizzes/:id/publish", handlers.Quiz.TogglePublish)

		// Questions
		api.GET("/quizzes/:id/questions", handlers.Question.List)
		api.POST("/quizzes/:id/questions", handlers.Question.Add)
		api.PUT("/quizzes/:id/questions/:questionId", handlers.Question.Edit)
		api.DELETE("/quizzes/:id/questions/:questionId", handlers.Question.Delete)
		api.PUT("/quizzes/:id/questions-order", handlers.Question.Reorder)

		// Room quiz assignment and listing
		api.POST("/rooms/:code/quizzes", handlers.Quiz.Assign)
		api.GET("/rooms/:code/quizzes", handlers.Quiz.RoomQuizzes)

		// Taking
		api.POST("/quizzes/:id/attempts", handlers.Attempt.Start)
		api.GET("/attempts/:id", handlers.Attempt.Paper)
		api.POST("/attempts/:id/submit", handlers.Attempt.Submit)
		api.GET("/attempts/:id/result", handlers.Attempt.Result)
	}

	return router
}
