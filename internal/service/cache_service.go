package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leagueops/internal/domain"
	"leagueops/pkg/redis"

	"go.uber.org/zap"
)

// CacheService provides cache-aside access to slow-changing league data.
// A nil redis client disables caching entirely (loaders run directly),
// which is how unit tests exercise the services.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// GetLeagueSettingsWithCache retrieves league settings with a cache-aside
// pattern. Cache failures fall through to the loader; they never fail the
// request.
func (c *CacheService) GetLeagueSettingsWithCache(ctx context.Context, leagueID string, dbFallback func(ctx context.Context, id string) (*domain.LeagueSettings, error)) (*domain.LeagueSettings, error) {
	if c.redis == nil {
		return dbFallback(ctx, leagueID)
	}

	cacheKey := c.redis.KeyBuilder.KeyLeagueSettings(leagueID)

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var settings domain.LeagueSettings
		if marshalErr := json.Unmarshal([]byte(cachedData), &settings); marshalErr == nil {
			c.logger.Debug("League settings cache hit", zap.String("league_id", leagueID))
			return &settings, nil
		}
		c.logger.Warn("League settings cache corrupted, falling back to database",
			zap.String("league_id", leagueID))
	} else if err != nil && !redis.IsNil(err) {
		c.logger.Warn("League settings cache error, falling back to database",
			zap.String("league_id", leagueID),
			zap.Error(err))
	}

	settings, err := dbFallback(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	if settings != nil {
		go c.cacheSettingsAsync(cacheKey, settings)
	}

	return settings, nil
}

// cacheSettingsAsync writes settings to cache off the request path.
func (c *CacheService) cacheSettingsAsync(cacheKey string, settings *domain.LeagueSettings) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey, string(data), redis.TTLLeagueSettings); err != nil {
		c.logger.Warn("Failed to cache league settings",
			zap.String("league_id", settings.LeagueID),
			zap.Error(err))
	}
}

// TryAcquireWaiverLock attempts to acquire the per-league waiver processing
// lock. Returns true when acquired. A nil redis client grants the lock,
// leaving serialization to the caller's deployment (single instance).
func (c *CacheService) TryAcquireWaiverLock(ctx context.Context, leagueID string) (bool, error) {
	if c.redis == nil {
		return true, nil
	}
	lockKey := c.redis.KeyBuilder.KeyWaiverLock(leagueID)
	return c.redis.SetNX(ctx, lockKey, "1", redis.TTLWaiverLock)
}

// ReleaseWaiverLock releases the per-league waiver processing lock.
func (c *CacheService) ReleaseWaiverLock(ctx context.Context, leagueID string) {
	if c.redis == nil {
		return
	}
	lockKey := c.redis.KeyBuilder.KeyWaiverLock(leagueID)
	if err := c.redis.Delete(ctx, lockKey); err != nil {
		c.logger.Warn("Failed to release waiver lock",
			zap.String("league_id", leagueID),
			zap.Error(err))
	}
}

// TryIdempotency claims an idempotency token. False means the token was
// already used and the request is a duplicate. A nil redis client grants
// every claim; duplicate submissions then rely on client discipline alone.
func (c *CacheService) TryIdempotency(ctx context.Context, token string) (bool, error) {
	if c.redis == nil {
		return true, nil
	}
	key := c.redis.KeyBuilder.KeyIdempotency(token)
	return c.redis.SetNX(ctx, key, "1", redis.TTLIdempotency)
}

// InvalidateTradeTally drops the cached tally after a vote lands.
func (c *CacheService) InvalidateTradeTally(ctx context.Context, tradeID string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyTradeTally(tradeID)); err != nil {
		c.logger.Warn("Failed to invalidate trade tally cache",
			zap.String("trade_id", tradeID),
			zap.Error(err))
	}
}

// GetTradeTallyCached returns a cached tally, or nil on miss.
func (c *CacheService) GetTradeTallyCached(ctx context.Context, tradeID string) *domain.VoteTally {
	if c.redis == nil {
		return nil
	}
	cachedData, err := c.redis.Get(ctx, c.redis.KeyBuilder.KeyTradeTally(tradeID))
	if err != nil || cachedData == "" {
		return nil
	}
	var tally domain.VoteTally
	if err := json.Unmarshal([]byte(cachedData), &tally); err != nil {
		return nil
	}
	return &tally
}

// SetTradeTallyCached stores a tally with a short TTL.
func (c *CacheService) SetTradeTallyCached(ctx context.Context, tradeID string, tally *domain.VoteTally) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(tally)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.redis.KeyBuilder.KeyTradeTally(tradeID), string(data), redis.TTLTradeTally); err != nil {
		c.logger.Warn("Failed to cache trade tally",
			zap.String("trade_id", tradeID),
			zap.Error(err))
	}
}

// HealthCheck verifies cache connectivity.
func (c *CacheService) HealthCheck(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Health(ctx); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}
	return nil
}
