package helpers

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client. The client is only used for
// rate-limit counters; a failed ping at boot is tolerated (the limiter fails
// open).
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
