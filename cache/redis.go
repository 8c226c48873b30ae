package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"maternal-health-backend/config"
)

// NewRedisClient connects the shared L2 tier. It returns nil when no address
// is configured or the server does not answer a ping, leaving the cache
// in-process only.
func NewRedisClient(cfg config.CacheConfig, log logrus.FieldLogger) *redis.Client {
	if cfg.RedisAddress == "" {
		log.Info("REDIS_ADDRESS not set, WHO cache runs in-process only")
		return nil
	}

	log.Infof("Connecting to Redis at %s...", cfg.RedisAddress)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Error("Failed to connect to Redis, continuing without L2 cache")
		_ = client.Close()
		return nil
	}

	log.Info("Successfully connected to Redis")
	return client
}
