package configuration

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ctx = context.Background()

// Client caches the queue board for the polling dashboards. It stays nil when
// Redis is unreachable; callers fall back to the database.
var Client *redis.Client

// InitRedis function initializes the redis connection
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	var err error
	MaxRetries := 5
	RetryDelay := time.Second * 5
	for i := 0; i < MaxRetries; i++ {
		Client = redis.NewClient(&redis.Options{
			Network: "tcp",
			Addr:    addr,
			DB:      0,
		})

		_, err = Client.Ping(ctx).Result()
		if err == nil {
			return
		}

		log.Warn().Err(err).Int("attempt", i+1).Int("max", MaxRetries).Msg("Failed to connect to Redis")
		time.Sleep(RetryDelay)
	}

	log.Warn().Msg("Redis unavailable, queue board caching disabled")
	Client = nil
}

// SetRedis will set a key value in redis server
func SetRedis(key string, value any, expirationTime time.Duration) error {
	if Client == nil {
		return nil
	}
	return Client.Set(ctx, key, value, expirationTime).Err()
}

// GetRedis will get the value from redis server using key
func GetRedis(key string) (string, error) {
	if Client == nil {
		return "", redis.Nil
	}
	return Client.Get(ctx, key).Result()
}

// DelRedis removes keys after a mutation so pollers see fresh data.
func DelRedis(keys ...string) {
	if Client == nil || len(keys) == 0 {
		return
	}
	Client.Del(ctx, keys...)
}
