package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// NewClient создает Redis клиент и проверяет соединение
func NewClient(ctx context.Context, addr, password string, db int, logger Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("Redis client connected (addr=%s, db=%d)", addr, db)
	return rdb, nil
}
