package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/campuslink/campuslink-backend/internal/cache"
	"github.com/campuslink/campuslink-backend/internal/config"
	"github.com/campuslink/campuslink-backend/internal/db"
	"github.com/campuslink/campuslink-backend/internal/handlers"
	"github.com/campuslink/campuslink-backend/internal/jobs"
	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/media"
	"github.com/campuslink/campuslink-backend/internal/middleware"
	"github.com/campuslink/campuslink-backend/internal/observability"
	"github.com/campuslink/campuslink-backend/internal/repos"
	"github.com/campuslink/campuslink-backend/internal/server"
	"github.com/campuslink/campuslink-backend/internal/services"
	"github.com/campuslink/campuslink-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := config.Load(log)
	if err != nil {
		log.Error("Could not load config", "error", err)
		os.Exit(1)
	}
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "campuslink-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	interestRepo := repos.NewInterestRepo(thePG, log)
	postRepo := repos.NewPostRepo(thePG, log)
	teamRepo := repos.NewTeamRepo(thePG, log)
	messageRepo := repos.NewMessageRepo(thePG, log)
	recommendationRepo := repos.NewRecommendationRepo(thePG, log)

	// Cache (optional)
	recCache, err := cache.NewRecommendationCache(log)
	if err != nil {
		log.Warn("Recommendation cache disabled", "error", err)
		recCache = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	mediaStore, err := media.NewLocalStore(log, mediaDir)
	if err != nil {
		log.Error("Could not init media store", "error", err)
		os.Exit(1)
	}
	avatarService, err := services.NewAvatarService(log, mediaStore)
	if err != nil {
		log.Warn("Avatar service disabled", "error", err)
		avatarService = nil
	}
	authService := services.NewAuthService(
		thePG,
		log,
		userRepo,
		userTokenRepo,
		avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(thePG, log, userRepo, avatarService)
	interestService := services.NewInterestService(thePG, log, interestRepo)
	postService := services.NewPostService(thePG, log, postRepo)
	teamService := services.NewTeamService(thePG, log, teamRepo, postRepo)
	messageService := services.NewMessageService(thePG, log, messageRepo, userRepo)
	recommendationService := services.NewRecommendationService(
		thePG,
		log,
		userRepo,
		interestRepo,
		postRepo,
		recommendationRepo,
		recCache,
		cfg.Engine,
	)

	// Jobs
	sweeper := jobs.NewSweeper(log, recommendationService, cfg.SweepInterval)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	interestHandler := handlers.NewInterestHandler(interestService)
	postHandler := handlers.NewPostHandler(postService)
	teamHandler := handlers.NewTeamHandler(teamService)
	messageHandler := handlers.NewMessageHandler(messageService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:           authHandler,
		AuthMiddleware:        authMiddleware,
		UserHandler:           userHandler,
		InterestHandler:       interestHandler,
		PostHandler:           postHandler,
		TeamHandler:           teamHandler,
		MessageHandler:        messageHandler,
		RecommendationHandler: recommendationHandler,
		ServiceName:           "campuslink-backend",
		AllowOrigins:          cfg.AllowOrigins,
	})

	fmt.Printf("Server listening on :%s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
