package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPermanent marks a failure that another attempt cannot fix.
var ErrPermanent = errors.New("permanent failure")

// Permanent wraps err so Do returns it without retrying.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do executes fn with exponential back-off. It gives up early when ctx is done.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := r.BaseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrPermanent) {
			return fmt.Errorf("%s: %w", operationName, lastErr)
		}

		if attempt < attempts {
			if r.Logger != nil {
				r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
					operationName, attempt, attempts, lastErr, delay)
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: %w", operationName, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempts, lastErr)
}
