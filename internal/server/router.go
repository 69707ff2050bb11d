package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/campuslink/campuslink-backend/internal/handlers"
	"github.com/campuslink/campuslink-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	UserHandler           *handlers.UserHandler
	InterestHandler       *handlers.InterestHandler
	PostHandler           *handlers.PostHandler
	TeamHandler           *handlers.TeamHandler
	MessageHandler        *handlers.MessageHandler
	RecommendationHandler *handlers.RecommendationHandler
	ServiceName           string
	AllowOrigins          []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PATCH("/user", cfg.UserHandler.UpdateProfile)
	protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)
	protected.DELETE("/user", cfg.UserHandler.DeleteMe)
	protected.GET("/users/:id", cfg.UserHandler.GetByID)
	// Interests
	protected.GET("/interests", cfg.InterestHandler.ListCatalog)
	protected.GET("/user/interests", cfg.InterestHandler.ListMine)
	protected.PUT("/user/interests", cfg.InterestHandler.SetMine)
	// Posts
	protected.POST("/posts", cfg.PostHandler.Create)
	protected.GET("/posts", cfg.PostHandler.List)
	protected.GET("/posts/mine", cfg.PostHandler.ListMine)
	protected.GET("/posts/:id", cfg.PostHandler.Get)
	protected.POST("/posts/:id/close", cfg.PostHandler.Close)
	protected.DELETE("/posts/:id", cfg.PostHandler.Delete)
	// Teams
	protected.POST("/teams", cfg.TeamHandler.Create)
	protected.GET("/teams", cfg.TeamHandler.List)
	protected.GET("/teams/:id", cfg.TeamHandler.Get)
	protected.POST("/teams/:id/join", cfg.TeamHandler.Join)
	protected.POST("/teams/:id/leave", cfg.TeamHandler.Leave)
	protected.GET("/teams/:id/members", cfg.TeamHandler.Members)
	// Messages
	protected.POST("/messages", cfg.MessageHandler.Send)
	protected.GET("/messages/inbox", cfg.MessageHandler.Inbox)
	protected.GET("/messages/with/:id", cfg.MessageHandler.Conversation)
	protected.POST("/messages/read", cfg.MessageHandler.MarkRead)
	// Recommendations
	protected.GET("/recommendations", cfg.RecommendationHandler.GetMine)
	protected.POST("/recommendations/refresh", cfg.RecommendationHandler.RefreshMine)

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
	admin.POST("/users/:id/status", cfg.UserHandler.SetStatus)
	admin.POST("/recommendations/regenerate", cfg.RecommendationHandler.RegenerateAll)

	return router
}
