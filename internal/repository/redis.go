package repository

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

func InitRedis(addr string, password string, db int) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}

	// REDIS_URL may be a full redis:// URL or a bare host:port
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		if password != "" {
			parsed.Password = password
		}
		opts = parsed
	}

	rdb := redis.NewClient(opts)

	ctx := context.Background()
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}
