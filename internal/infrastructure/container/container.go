package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lwindle/MeetMoment/internal/config"
	"github.com/lwindle/MeetMoment/internal/delivery/http"
	"github.com/lwindle/MeetMoment/internal/delivery/http/handler"
	"github.com/lwindle/MeetMoment/internal/delivery/http/middleware"
	"github.com/lwindle/MeetMoment/internal/event"
	"github.com/lwindle/MeetMoment/internal/infrastructure/database"
	"github.com/lwindle/MeetMoment/internal/infrastructure/gemini"
	"github.com/lwindle/MeetMoment/internal/infrastructure/qwen"
	"github.com/lwindle/MeetMoment/internal/infrastructure/server"
	"github.com/lwindle/MeetMoment/internal/repository"
	"github.com/lwindle/MeetMoment/internal/repository/memory"
	"github.com/lwindle/MeetMoment/internal/repository/postgres"
	redisrepo "github.com/lwindle/MeetMoment/internal/repository/redis"
	"github.com/lwindle/MeetMoment/internal/usecase/auth"
	"github.com/lwindle/MeetMoment/internal/usecase/chat"
	"github.com/lwindle/MeetMoment/internal/usecase/feed"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Bus    *event.Bus
	Server *server.Server

	gemini *gemini.Client
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis; fall back to an in-memory session store when it is
	// unreachable so the service still comes up.
	var sessionStore repository.SessionStore
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, using in-memory session store", "error", err)
		redisClient = nil
		sessionStore = memory.NewSessionStore()
	} else {
		sessionStore = redisrepo.NewSessionStore(redisClient)
	}

	// Initialize repositories
	source := postgres.NewProfileSource(db)
	userRepo := postgres.NewUserRepository(db)

	// Initialize event bus
	bus := event.NewBus()

	// Initialize the inference backend
	var inference chat.Inference
	var geminiClient *gemini.Client
	switch cfg.AI.Provider {
	case "gemini":
		geminiClient, err = gemini.NewClient(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
		if err != nil {
			slog.Warn("failed to initialize gemini client, falling back to qwen", "error", err)
			inference = qwen.NewClient(&cfg.AI)
		} else {
			inference = geminiClient
		}
	default:
		inference = qwen.NewClient(&cfg.AI)
	}

	// Load personas; the registry installs a built-in fallback on failure.
	registry := chat.NewRegistry(source)
	loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := registry.Load(loadCtx); err != nil {
		slog.Warn("failed to load personas, using built-in fallback", "error", err)
	}

	// Initialize use cases
	feedUseCase := feed.NewUseCase(source, source, bus, cfg.Feed.RecommendGender)
	chatUseCase := chat.NewUseCase(registry, inference, bus, cfg.AI.RequestTimeout)
	authUseCase := auth.NewUseCase(
		userRepo,
		sessionStore,
		cfg.JWT.Secret,
		cfg.JWT.TokenTTL,
		feedUseCase,
		chatUseCase,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	feedHandler := handler.NewFeedHandler(feedUseCase)
	chatHandler := handler.NewChatHandler(chatUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		feedHandler,
		chatHandler,
		authMiddleware,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Bus:    bus,
		Server: srv,
		gemini: geminiClient,
	}, nil
}

// Close releases all held resources
func (c *Container) Close() error {
	if c.gemini != nil {
		c.gemini.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
