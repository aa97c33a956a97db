package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	delays []time.Duration
}

func (r *recorder) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func TestDoSucceedsAfterTwoFailures(t *testing.T) {
	rec := &recorder{}
	policy := DefaultPolicy()
	policy.Sleep = rec.sleep

	var timeouts []time.Duration
	calls := 0
	value, err := Do(context.Background(), policy, func(_ context.Context, timeout time.Duration) (string, error) {
		calls++
		timeouts = append(timeouts, timeout)
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{90 * time.Second, 120 * time.Second, 150 * time.Second}, timeouts)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.delays)
}

func TestDoReturnsLastError(t *testing.T) {
	rec := &recorder{}
	policy := Policy{MaxAttempts: 2, BaseDelay: time.Second, Sleep: rec.sleep}

	first := errors.New("first")
	last := errors.New("last")
	calls := 0
	_, err := Do(context.Background(), policy, func(context.Context, time.Duration) (int, error) {
		calls++
		if calls == 1 {
			return 0, first
		}
		return 0, last
	})

	assert.Same(t, last, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, rec.delays, 1, "no delay after the final attempt")
}

func TestDoStopsOnCancelledSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := DefaultPolicy()
	policy.Sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	calls := 0
	_, err := Do(ctx, policy, func(context.Context, time.Duration) (struct{}, error) {
		calls++
		return struct{}{}, errors.New("down")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPolicyDefaults(t *testing.T) {
	var p Policy
	assert.Equal(t, 90*time.Second, p.Timeout(0))
	assert.Equal(t, time.Duration(0), p.Delay(3))

	p = DefaultPolicy()
	assert.Equal(t, 8*time.Second, p.Delay(2))
	assert.Equal(t, 150*time.Second, p.Timeout(2))
}
