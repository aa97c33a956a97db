// Package retry runs model calls with exponential back-off and a per-attempt
// timeout that grows with every attempt.
package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/utils"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
	DefaultBaseTimeout = 90 * time.Second
	DefaultTimeoutStep = 30 * time.Second
)

// Policy describes how many attempts are made and how they are spaced.
type Policy struct {
	MaxAttempts int           `mapstructure:"max-attempts" validate:"gte=0"`
	BaseDelay   time.Duration `mapstructure:"base-delay" validate:"gte=0"`
	BaseTimeout time.Duration `mapstructure:"base-timeout" validate:"gte=0"`
	TimeoutStep time.Duration `mapstructure:"timeout-step" validate:"gte=0"`

	// Sleep waits between attempts. Defaults to utils.WaitFor.
	Sleep  func(ctx context.Context, d time.Duration) error `mapstructure:"-" json:"-"`
	Logger *zap.Logger                                      `mapstructure:"-" json:"-"`
}

// DefaultPolicy returns 3 attempts, 2s base delay and 90s+30s·k timeouts.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		BaseTimeout: DefaultBaseTimeout,
		TimeoutStep: DefaultTimeoutStep,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseTimeout <= 0 {
		p.BaseTimeout = DefaultBaseTimeout
	}
	if p.Sleep == nil {
		p.Sleep = utils.WaitFor
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return p
}

// Timeout is the per-attempt budget for the zero-based attempt k.
func (p Policy) Timeout(k int) time.Duration {
	p = p.withDefaults()
	return p.BaseTimeout + time.Duration(k)*p.TimeoutStep
}

// Delay is the pause after the failed zero-based attempt k.
func (p Policy) Delay(k int) time.Duration {
	return p.BaseDelay * time.Duration(1<<k)
}

// Do invokes op until it succeeds or the attempts are exhausted. The error of
// the last attempt is returned unchanged. Cancellation of ctx stops the loop
// early and returns the last operation error joined with ctx.Err().
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context, timeout time.Duration) (T, error)) (T, error) {
	p = p.withDefaults()

	var (
		zero    T
		lastErr error
	)

	for k := 0; k < p.MaxAttempts; k++ {
		timeout := p.Timeout(k)
		value, err := op(ctx, timeout)
		if err == nil {
			if k > 0 {
				p.Logger.Debug("attempt succeeded after retries", zap.Int("attempt", k+1))
			}
			return value, nil
		}
		lastErr = err

		if k == p.MaxAttempts-1 {
			break
		}

		delay := p.Delay(k)
		p.Logger.Warn("attempt failed, retrying",
			zap.Int("attempt", k+1),
			zap.Int("max_attempts", p.MaxAttempts),
			zap.Duration("timeout", timeout),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if delay > 0 {
			if serr := p.Sleep(ctx, delay); serr != nil {
				return zero, errors.Join(lastErr, serr)
			}
		} else if ctx.Err() != nil {
			return zero, errors.Join(lastErr, ctx.Err())
		}
	}

	p.Logger.Debug("attempts exhausted", zap.Int("max_attempts", p.MaxAttempts), zap.Error(lastErr))
	return zero, lastErr
}
