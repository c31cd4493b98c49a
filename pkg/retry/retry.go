package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy параметры повторов с экспоненциальной задержкой
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Do вызывает op, пока она не завершится успешно, не вернет постоянную ошибку
// или не кончатся попытки. Возвращает последнюю ошибку op.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error, permanent func(error) bool) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.Retry(func() error {
		err := op(ctx)
		if err != nil && permanent != nil && permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx))
}
