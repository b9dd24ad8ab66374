// @title           Portfolio Backend API
// @version         1.0.0
// @description     Backend API for a portfolio showcase. Handles mobile app records with multi-file media attachments, uploads to Supabase Storage, video compression, and JWT-based admin access.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/supabase-community/supabase-go"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "portfolio-backend/docs"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/realtime"
	"portfolio-backend/internal/services"
	"portfolio-backend/internal/storage"
	"portfolio-backend/internal/transcode"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Run migrations before anything touches the schema.
	migrator, err := database.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize migrator", zap.Error(err))
	}
	if err := migrator.Run(); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	migrator.Close()

	db, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	objects, err := storage.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", zap.Error(err))
	}

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
	if err != nil {
		logger.Fatal("failed to initialize supabase client", zap.Error(err))
	}
	events := realtime.NewPublisher(supabaseClient)

	var filter media.Filter
	if cfg.FFmpegPath != "" {
		filter = transcode.NewFFmpeg(cfg.FFmpegPath)
		logger.Info("video compression enabled", zap.String("ffmpeg", cfg.FFmpegPath))
	} else {
		logger.Info("video compression disabled, FFMPEG_PATH not set")
	}

	appService := services.NewMobileAppService(db, objects, filter, events, logger)

	authHandler := handlers.NewAuthHandler(db, cfg, logger)
	appsHandler := handlers.NewMobileAppsHandler(appService, logger)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// Reads are public, writes require the admin account.
	api.GET("/mobile/get-all-mobileApps", appsHandler.List)
	api.GET("/mobile/get-mobileApp/:id", appsHandler.Get)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg.JWTSecret, db))
	protected.Use(middleware.RequireAdmin())
	protected.POST("/mobile/add-mobileApp", appsHandler.Create)
	protected.PUT("/mobile/update-mobileApp/:id", appsHandler.Update)
	protected.DELETE("/mobile/delete-mobileApp/:id", appsHandler.Delete)

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
