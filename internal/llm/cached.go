// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/report-engine/internal/cache"
	"github.com/pdiddy/report-engine/internal/metrics"
)

type cached struct {
	next     Model
	store    *cache.Store
	model    string
	recorder *metrics.Recorder
	logger   *zap.Logger
}

// Cached answers repeated prompts from store. Entries are keyed by the model
// name and the exact prompt. Cache failures are logged and the call falls
// through to m; failed round trips are never stored.
func Cached(m Model, store *cache.Store, model string, recorder *metrics.Recorder, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cached{next: m, store: store, model: model, recorder: recorder, logger: logger}
}

func (c *cached) Invoke(ctx context.Context, prompt string) (string, error) {
	key := cache.Key(c.model, prompt)

	out, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("cache lookup failed", zap.Error(err))
	case ok:
		c.recorder.CacheHit()
		c.logger.Debug("cache hit", zap.String("key", key[:12]))
		return out, nil
	}

	out, err = c.next.Invoke(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := c.store.Put(ctx, key, c.model, out); err != nil {
		c.logger.Warn("cache write failed", zap.Error(err))
	}
	return out, nil
}
