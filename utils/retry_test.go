package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	var slept []time.Duration
	r := &RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Millisecond,
		Logger:      NewNopLogger(),
		sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := r.Do("ping", func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, slept)
}

func TestRetryWrapsLastError(t *testing.T) {
	sentinel := errors.New("connection refused")
	r := &RetryConfig{
		MaxAttempts: 2,
		Logger:      NewNopLogger(),
		sleep:       func(time.Duration) {},
	}

	err := r.Do("ping", func() error { return sentinel })

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "ping failed after 2 attempts")
}

func TestRetryZeroAttemptsStillRunsOnce(t *testing.T) {
	r := &RetryConfig{Logger: NewNopLogger()}
	calls := 0
	require.NoError(t, r.Do("once", func() error { calls++; return nil }))
	assert.Equal(t, 1, calls)
}

func TestLoggerLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "INFO", " warn ", "error", "bogus"} {
		l := NewLoggerWithLevel(lvl)
		require.NotNil(t, l)
		l.Debug("[test] level %s", lvl)
		l.With("run_id", "abc").Info("[test] child logger")
	}
}
