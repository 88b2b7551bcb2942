package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/school-portal-service/internal/auth"
	"github.com/SAP-F-2025/school-portal-service/internal/config"
	"github.com/SAP-F-2025/school-portal-service/internal/events"
	"github.com/SAP-F-2025/school-portal-service/internal/handlers"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/storage"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
	"github.com/SAP-F-2025/school-portal-service/internal/validator"
	"github.com/SAP-F-2025/school-portal-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", "error", err)
			redisClient = nil
		}
	}

	// Initialize repositories (applies the schema)
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Initialize event publisher
	publisher, err := newEventPublisher(cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	files, err := storage.NewLocalStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceDeps{
		Repo:      repoManager.GetRepository(),
		Logger:    slogLogger,
		Validator: validator.New(),
		Files:     files,
		Publisher: publisher,
		Tokens:    tokens,
	}, services.ServiceManagerConfig{
		AdminSeed: services.AdminSeed{
			Username: cfg.SeedAdmin.Username,
			Email:    cfg.SeedAdmin.Email,
			Password: cfg.SeedAdmin.Password,
		},
		AssistantAPIKey: cfg.AssistantAPIKey,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	seeded, err := serviceManager.Identity().Bootstrap(context.Background())
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if seeded {
		logger.Info("Seeded admin account", "username", cfg.SeedAdmin.Username)
	}

	// Initialize handlers
	authMiddleware := handlers.NewAuthMiddleware(tokens, serviceManager.Identity(), cfg.Casdoor, logger)
	handlerManager := handlers.NewHandlerManager(serviceManager, authMiddleware, logger)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	handlers.SetupMiddleware(router, logger, cfg.MaxUploadBytes)
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Closes the event publisher
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	// Closes the database and Redis connections
	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to close repositories", "error", err)
	}

	logger.Info("Server exited")
}

// newEventPublisher uses Kafka when brokers are configured and an in-process
// channel otherwise.
func newEventPublisher(cfg *config.Config, logger *slog.Logger) (events.EventPublisher, error) {
	if len(cfg.Events.KafkaBrokers) > 0 {
		return events.NewKafkaEventPublisher(cfg.Events.KafkaBrokers, cfg.Events.Topic, logger)
	}
	logger.Info("No Kafka brokers configured, publishing events in-process")
	return events.NewWatermillEventPublisher(events.NewGoChannelPubSub(logger), cfg.Events.Topic, logger), nil
}
