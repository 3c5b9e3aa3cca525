package config

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTest installs client as the session store, typically a
// redismock client. Passing nil runs the application without Redis.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest clears the session store so ConnectRedis runs again.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
