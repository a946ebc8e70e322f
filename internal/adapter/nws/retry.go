package nws

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy waits a fixed Interval between attempts and gives up once Stop
// has elapsed since the first attempt.
type RetryPolicy struct {
	Interval time.Duration
	Stop     time.Duration

	// RetryNoData also retries ErrNoData. Server errors (5xx) are always
	// retried; every other error is returned immediately.
	RetryNoData bool

	// OnRetry, if set, is called before each wait.
	OnRetry func(err error, wait time.Duration)
}

// Retryable reports whether err is worth another attempt under p.
func (p RetryPolicy) Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) && se.Temporary() {
		return true
	}
	return p.RetryNoData && errors.Is(err, ErrNoData)
}

// Retry calls fn until it succeeds, returns a non-retryable error, the stop
// delay passes, or ctx is done. The last error from fn is returned.
func Retry(ctx context.Context, p RetryPolicy, fn func(context.Context) error) error {
	op := func() error {
		err := fn(ctx)
		if err != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(op, backoff.WithContext(p.backOff(), ctx), p.OnRetry)
}

func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Interval
	b.MaxInterval = p.Interval
	b.Multiplier = 1
	b.RandomizationFactor = 0
	b.MaxElapsedTime = p.Stop
	b.Reset()
	return b
}
