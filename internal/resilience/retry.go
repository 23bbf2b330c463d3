// Package resilience provides the bounded, fixed-delay retry used for
// transient upstream placeholder pages.
package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls a bounded retry with a fixed delay.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first try).
	// A value of 1 means no retries. Default: 2.
	MaxAttempts int

	// Delay is the fixed pause before each retry. Default: 3s.
	Delay time.Duration

	// OnRetry is called before each retry sleep with the attempt number and reason.
	OnRetry func(attempt int, reason string)
}

// DefaultRetryConfig returns the single-retry configuration used for
// placeholder pages.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 2,
		Delay:       3 * time.Second,
	}
}

// DoVal calls fn, and calls it again while retryable reports the value as
// transient, up to cfg.MaxAttempts attempts. Errors from fn are returned
// immediately and never retried. When attempts run out the last value is
// returned as-is so the caller can classify it.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error), retryable func(T) (bool, string)) (T, error) {
	cfg = applyDefaults(cfg)

	var val T
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		var err error
		val, err = fn(ctx)
		if err != nil {
			return val, err
		}

		again, reason := retryable(val)
		if !again || attempt == cfg.MaxAttempts {
			return val, nil
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, reason)
		}

		if err := Sleep(ctx, cfg.Delay); err != nil {
			return val, err
		}
	}
	return val, nil
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	return cfg
}

// RetryLogger returns an OnRetry callback that logs each retry attempt.
func RetryLogger(service, operation string) func(int, string) {
	return func(attempt int, reason string) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.String("reason", reason),
		)
	}
}
