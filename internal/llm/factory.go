// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/pdiddy/report-engine/internal/cache"
	"github.com/pdiddy/report-engine/internal/container"
	"github.com/pdiddy/report-engine/internal/metrics"
	"github.com/pdiddy/report-engine/pkg/types"
)

// ErrMissingAPIKey is returned by New when a hosted provider has no key.
var ErrMissingAPIKey = errors.New("missing API key")

var defaultModels = map[types.ModelProvider]string{
	types.ProviderClaude: "claude-sonnet-4-5-20250929",
	types.ProviderOpenAI: "gpt-4o",
	types.ProviderGemini: "gemini-2.5-flash",
}

// Options carries the collaborators New wires into the model stack.
type Options struct {
	Logger   *zap.Logger
	Recorder *metrics.Recorder

	// HTTPClient overrides the client built from the HTTP settings.
	HTTPClient *http.Client

	// Runtime overrides container runtime detection.
	Runtime container.Runtime
}

// New builds the configured backend and wraps it, innermost first, with the
// prompt prefix, retries, and the response cache (when CachePath is set). The
// cache sits outermost so its key covers the prefixed prompt the backend
// receives. The returned close function releases the cache and is never nil.
func New(ctx context.Context, cfg types.AIConfig, opts Options) (Model, func() error, error) {
	noop := func() error { return nil }

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := cfg.Provider
	if provider == "" {
		provider = types.ProviderClaude
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModels[provider]
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var backend Model
	switch provider {
	case types.ProviderClaude:
		if cfg.APIKey == "" {
			return nil, noop, fmt.Errorf("claude: %w", ErrMissingAPIKey)
		}
		backend = &Claude{
			APIKey:    cfg.APIKey,
			Model:     modelName,
			MaxTokens: cfg.MaxTokens,
			UserAgent: cfg.UserAgent,
			Client:    httpClient,
		}

	case types.ProviderOpenAI:
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, noop, fmt.Errorf("openai: %w", ErrMissingAPIKey)
		}
		var extra []option.RequestOption
		if cfg.UserAgent != "" {
			extra = append(extra, option.WithHeader("User-Agent", cfg.UserAgent))
		}
		backend = NewOpenAI(cfg.APIKey, cfg.BaseURL, modelName, cfg.MaxTokens, httpClient, extra...)

	case types.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, noop, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
		}
		g, err := NewGemini(ctx, cfg.APIKey, cfg.BaseURL, modelName, cfg.MaxTokens, httpClient)
		if err != nil {
			return nil, noop, err
		}
		backend = g

	case types.ProviderContainer:
		if cfg.Image == "" {
			return nil, noop, fmt.Errorf("container provider requires an image")
		}
		rt := opts.Runtime
		if rt == nil {
			detected, err := container.DetectRuntime(ctx)
			if err != nil {
				return nil, noop, err
			}
			rt = detected
		}
		if err := rt.ImageExists(ctx, cfg.Image); err != nil {
			return nil, noop, err
		}
		modelName = cfg.Image
		backend = &Container{Runtime: rt, Image: cfg.Image}

	default:
		return nil, noop, fmt.Errorf("unknown model provider %q", provider)
	}

	logger.Debug("model backend ready",
		zap.String("provider", string(provider)),
		zap.String("model", modelName),
	)

	m := Retrying(WithPrefix(backend, cfg.PromptPrefix), cfg.MaxRetries, logger)

	closeFn := noop
	if cfg.CachePath != "" {
		store, err := cache.Open(cfg.CachePath)
		if err != nil {
			return nil, noop, err
		}
		m = Cached(m, store, string(provider)+"/"+modelName, opts.Recorder, logger)
		closeFn = store.Close
	}

	return m, closeFn, nil
}
