package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-report-service/internal/config"
	"github.com/spec-kit/maintenance-report-service/internal/domain"
)

const sessionRoleKeyPrefix = "session:role:"

// Redis wraps the go-redis client and the session-role cache built on it.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// GetSessionRole returns the cached role for a user id. The second return
// value is false on a miss.
func (r *Redis) GetSessionRole(ctx context.Context, userID string) (domain.Role, bool, error) {
	if r == nil || r.Client == nil {
		return "", false, errors.New("redis client not configured")
	}
	val, err := r.Client.Get(ctx, sessionRoleKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	role := domain.Role(val)
	if !domain.ValidRole(role) {
		return "", false, nil
	}
	return role, true, nil
}

// SetSessionRole caches a resolved role with the given TTL.
func (r *Redis) SetSessionRole(ctx context.Context, userID string, role domain.Role, ttl time.Duration) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Set(ctx, sessionRoleKeyPrefix+userID, string(role), ttl).Err()
}

// DeleteSessionRole drops a cached role, used when an admin changes it.
func (r *Redis) DeleteSessionRole(ctx context.Context, userID string) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Del(ctx, sessionRoleKeyPrefix+userID).Err()
}
