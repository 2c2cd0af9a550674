package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу токена
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisClient подмножество *redis.Client, используемое блокировкой
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RedisConfig параметры распределённой блокировки
type RedisConfig struct {
	Prefix        string
	TTL           time.Duration // срок аренды ключа
	RetryInterval time.Duration // пауза между попытками SET NX
}

// Redis блокировка по ключу для нескольких экземпляров сервиса (SET NX PX + токен владельца).
// Аренда ограничена TTL, поэтому окончательную защиту даёт блокировка строки в PostgreSQL
type Redis struct {
	client RedisClient
	cfg    RedisConfig
	logger Logger
}

// NewRedis создает распределённую блокировку
func NewRedis(client RedisClient, cfg RedisConfig, logger Logger) *Redis {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 10 * time.Millisecond
	}
	return &Redis{client: client, cfg: cfg, logger: logger}
}

// Lock повторяет SET NX до успеха или отмены ctx
func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	redisKey := r.cfg.Prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(r.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.cfg.TTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
			}
			return nil, fmt.Errorf("%w: SET NX %s: %v", ErrLockUnavailable, redisKey, err)
		}
		if ok {
			return r.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
		}
	}
}

func (r *Redis) unlockFunc(redisKey, token string) Unlock {
	var once sync.Once
	return func() {
		once.Do(func() { r.release(redisKey, token) })
	}
}

func (r *Redis) release(redisKey, token string) {
	// Освобождаем даже если контекст запроса уже отменён
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.TTL)
	defer cancel()

	deleted, err := r.client.Eval(ctx, releaseScript, []string{redisKey}, token).Int64()
	if err != nil {
		r.logger.Error("lock.Redis: failed to release %s: %v", redisKey, err)
		return
	}
	if deleted == 0 {
		r.logger.Warn("lock.Redis: lease on %s expired before release", redisKey)
	}
}
