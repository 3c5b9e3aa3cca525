package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig controls the optional Redis backing for doctor sessions and
// login rate limiting. With Enabled false no client is created.
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Addr     string `json:"addr"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

const redisPingTimeout = 2 * time.Second

func loadRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		db = 0
	}
	return RedisConfig{
		Enabled:  os.Getenv("REDIS_ENABLED") == "true",
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
}

// ConnectRedis creates the session store client once. A disabled config
// leaves the client nil, which turns session revocation and rate limiting off.
// A server that does not answer PING is treated the same way and reported.
func ConnectRedis(cfg RedisConfig) (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		if !cfg.Enabled {
			return
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			err = fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
			return
		}
		redisClient = rdb
	})
	return redisClient, err
}

// GetRedisClient returns the session store client, or nil when Redis is off.
func GetRedisClient() *redis.Client {
	return redisClient
}
