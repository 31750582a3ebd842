package service

import (
	"context"
	"time"

	"leagueops/pkg/redis"

	"go.uber.org/zap"
)

// redisNotifier publishes notifications to per-user pub/sub channels. The
// actual delivery (websocket fanout, email digests) is a downstream
// consumer's concern.
type redisNotifier struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewRedisNotifier creates a notifier backed by redis pub/sub
func NewRedisNotifier(redisClient *redis.Client, logger *zap.Logger) Notifier {
	return &redisNotifier{redis: redisClient, logger: logger}
}

// Notify publishes the message to each target's channel. Runs off the
// caller's goroutine with its own bounded timeout; publish failures are
// logged and dropped so settlement is never blocked by delivery.
func (n *redisNotifier) Notify(_ context.Context, targets []string, message string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		for _, target := range targets {
			channel := n.redis.KeyBuilder.KeyNotifyChannel(target)
			if err := n.redis.Publish(ctx, channel, message); err != nil {
				n.logger.Warn("Failed to publish notification",
					zap.String("target", target),
					zap.Error(err))
			}
		}
	}()
}

// noopNotifier discards all notifications. Used in tests and when redis is
// not configured.
type noopNotifier struct{}

// NewNoopNotifier creates a notifier that drops everything
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Notify(context.Context, []string, string) {}
