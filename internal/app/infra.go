package app

import (
	"context"

	"tiktok-login/internal/config"
	"tiktok-login/internal/logger"
	"tiktok-login/internal/redis"
	"tiktok-login/internal/session"
)

type Infra struct {
	Attempts session.Store
	cleanup  func() error
}

// setupInfra picks the attempt store: Redis when REDIS_ADDR is set,
// process memory otherwise.
func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, login attempts kept in memory", nil)

		return &Infra{
			Attempts: session.NewMemoryStore(),
			cleanup:  func() error { return nil },
		}, nil
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", map[string]any{
		"addr": cfg.RedisAddr,
	})

	return &Infra{
		Attempts: session.NewRedisStore(redisClient.Client),
		cleanup:  redisClient.Close,
	}, nil
}
