package nws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{Interval: time.Millisecond, Stop: time.Second}
}

func TestRetryPolicy_Retryable(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		retryNoData bool
		want        bool
	}{
		{"server error", &StatusError{StatusCode: http.StatusBadGateway}, false, true},
		{"wrapped server error", fmt.Errorf("update: %w", &StatusError{StatusCode: 500}), false, true},
		{"client error", &StatusError{StatusCode: http.StatusNotFound}, false, false},
		{"no data without flag", ErrNoData, false, false},
		{"no data with flag", fmt.Errorf("forecast: %w", ErrNoData), true, true},
		{"other error", errors.New("boom"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := RetryPolicy{RetryNoData: tt.retryNoData}
			assert.Equal(t, tt.want, p.Retryable(tt.err))
		})
	}
}

func TestRetry_SucceedsAfterServerErrors(t *testing.T) {
	calls := 0
	var waits []time.Duration
	p := fastPolicy()
	p.OnRetry = func(_ error, wait time.Duration) { waits = append(waits, wait) }

	err := Retry(context.Background(), p, func(context.Context) error {
		calls++
		if calls < 3 {
			return &StatusError{StatusCode: http.StatusInternalServerError}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Millisecond, time.Millisecond}, waits)
}

func TestRetry_PermanentErrorReturnedImmediately(t *testing.T) {
	calls := 0
	notFound := &StatusError{StatusCode: http.StatusNotFound}

	err := Retry(context.Background(), fastPolicy(), func(context.Context) error {
		calls++
		return notFound
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, notFound)
}

func TestRetry_NoData(t *testing.T) {
	calls := 0
	fn := func(context.Context) error {
		calls++
		if calls < 2 {
			return ErrNoData
		}
		return nil
	}

	err := Retry(context.Background(), fastPolicy(), fn)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, 1, calls)

	calls = 0
	p := fastPolicy()
	p.RetryNoData = true
	require.NoError(t, Retry(context.Background(), p, fn))
	assert.Equal(t, 2, calls)
}

func TestRetry_StopsAfterDelay(t *testing.T) {
	p := RetryPolicy{Interval: 5 * time.Millisecond, Stop: 30 * time.Millisecond}
	calls := 0

	start := time.Now()
	err := Retry(context.Background(), p, func(context.Context) error {
		calls++
		return &StatusError{StatusCode: http.StatusServiceUnavailable}
	})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Greater(t, calls, 1)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{Interval: time.Hour, Stop: 2 * time.Hour}

	calls := 0
	err := Retry(ctx, p, func(context.Context) error {
		calls++
		cancel()
		return &StatusError{StatusCode: http.StatusServiceUnavailable}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
