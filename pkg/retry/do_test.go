package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTemporary = errors.New("temporary error")

func TestDo_Success(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_RetrySuccess(t *testing.T) {
	attempts := 0
	var retried []int
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTemporary
		}
		return nil
	},
		WithMaxAttempts(3),
		WithBackoff(Fixed(time.Millisecond)),
		WithOnRetry(func(attempt int, err error) { retried = append(retried, attempt) }),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_MaxAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return errTemporary
	}, WithMaxAttempts(4), WithBackoff(Fixed(0)))
	assert.ErrorIs(t, err, errTemporary)
	assert.Equal(t, 4, attempts)
}

func TestDo_CustomRetryIf(t *testing.T) {
	permanent := errors.New("permanent")
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return permanent
	}, WithRetryIf(func(err error) bool { return errors.Is(err, errTemporary) }))
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Do(ctx, func(context.Context) error {
		return errTemporary
	}, WithMaxAttempts(5), WithBackoff(Fixed(time.Second)))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDo_NoRetryOnPreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, func(context.Context) error {
		attempts++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, attempts)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"wrapped canceled", errors.Join(errTemporary, context.Canceled), false},
		{"generic", errTemporary, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err))
		})
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		name    string
		backoff Backoff
		attempt int
		want    time.Duration
	}{
		{"fixed", Fixed(10 * time.Millisecond), 5, 10 * time.Millisecond},
		{"exponential first", Exponential(10 * time.Millisecond), 0, 10 * time.Millisecond},
		{"exponential third", Exponential(10 * time.Millisecond), 2, 40 * time.Millisecond},
		{"exponential capped", Exponential(10*time.Millisecond, 25*time.Millisecond), 3, 25 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.backoff.Next(tt.attempt))
		})
	}
}

func TestFullJitter(t *testing.T) {
	assert.Zero(t, FullJitter(0))
	for range 100 {
		d := FullJitter(10 * time.Millisecond)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, 10*time.Millisecond)
	}
}
