package container

import (
	"context"
	"fmt"

	"leagueops/internal/config"
	"leagueops/internal/repository"
	"leagueops/internal/service"
	"leagueops/pkg/database"
	"leagueops/pkg/logger"
	"leagueops/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Repositories *repository.Repositories
	Cache        *service.CacheService
	Services     *service.Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Redis is optional: caching, the waiver lock, and notifications
	// degrade gracefully without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	repos := &repository.Repositories{
		Trade:  repository.NewTradeRepository(db),
		Waiver: repository.NewWaiverRepository(db),
		Vote:   repository.NewVoteRepository(db),
		Roster: repository.NewRosterRepository(db),
		League: repository.NewLeagueRepository(db),
		Log:    repository.NewTransactionLogRepository(db),
	}

	cache := service.NewCacheService(redisClient, log.Logger)

	var notifier service.Notifier
	if redisClient != nil {
		notifier = service.NewRedisNotifier(redisClient, log.Logger)
	} else {
		notifier = service.NewNoopNotifier()
	}

	validator := service.NewValidator(repos, log.Logger)
	settlement := service.NewSettlementEngine(db, log.Logger)

	services := &service.Services{
		Trade: service.NewTradeService(repos, validator, settlement, cache, notifier, service.TradeServiceConfig{
			MaxItems:    cfg.TradeMaxItems,
			ExpiryHours: cfg.TradeExpiryHrs,
		}, log.Logger),
		Waiver: service.NewWaiverService(repos, validator, settlement, cache, notifier, log.Logger),
		Review: service.NewReviewService(repos, settlement, cache, notifier, log.Logger),
	}

	return &Container{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		RedisClient:  redisClient,
		Repositories: repos,
		Cache:        cache,
		Services:     services,
	}, nil
}

// Close releases the container's long-lived resources.
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
}

// GetTradeService returns the trade service
func (c *Container) GetTradeService() service.TradeService {
	return c.Services.Trade
}

// GetWaiverService returns the waiver service
func (c *Container) GetWaiverService() service.WaiverService {
	return c.Services.Waiver
}

// GetReviewService returns the review service
func (c *Container) GetReviewService() service.ReviewService {
	return c.Services.Review
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
