package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrLockNotAcquired возвращается, если ключ занят дольше времени ожидания
	ErrLockNotAcquired = errors.New("redislock: lock not acquired")
	// ErrRedis возвращается при ошибке обращения к redis
	ErrRedis = errors.New("redislock: redis error")
)

const keyPrefix = "lock:"

// Locker распределенная блокировка по ключу
type Locker struct {
	client  redis.UniversalClient
	ttl     time.Duration
	waitFor time.Duration
}

// New создает блокировку. ttl ограничивает время удержания ключа,
// waitFor - сколько ждать освобождения занятого ключа
func New(client redis.UniversalClient, ttl, waitFor time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl, waitFor: waitFor}
}

// WithLock выполняет fn, удерживая ключ key.
// Ключ снимается только тем, кто его поставил.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	key = keyPrefix + key
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}
	defer func() {
		_ = l.release(context.WithoutCancel(ctx), key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

func (l *Locker) acquire(ctx context.Context, key, token string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = l.waitFor
	b.Reset()

	op := func() error {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: acquire %s: %v", ErrRedis, key, err))
		}
		if !ok {
			return ErrLockNotAcquired
		}
		return nil
	}

	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *Locker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: release %s: %v", ErrRedis, key, err)
	}
	return nil
}
