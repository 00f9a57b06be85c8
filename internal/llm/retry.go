// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// backoffBase controls the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

type retrying struct {
	next       Model
	maxRetries int
	logger     *zap.Logger
}

// Retrying retries failed round trips on m with exponential backoff, up to
// maxRetries extra attempts. maxRetries <= 0 returns m unchanged.
func Retrying(m Model, maxRetries int, logger *zap.Logger) Model {
	if maxRetries <= 0 {
		return m
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &retrying{next: m, maxRetries: maxRetries, logger: logger}
}

func (r *retrying) Invoke(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			r.logger.Debug("retrying model call",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := r.next.Invoke(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", r.maxRetries, lastErr)
}
