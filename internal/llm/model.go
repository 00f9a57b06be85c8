// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides the model collaborator used by report generation:
// one Invoke call per round trip, prompt in and text out. Backends cover the
// Claude Messages API, OpenAI-compatible chat completions, Gemini, and local
// container images; decorators add retries, caching, and a prompt prefix.
package llm

import "context"

// Model sends one prompt and returns the completion text.
type Model interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Func adapts an ordinary function to the Model interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type prefixed struct {
	next   Model
	prefix string
}

// WithPrefix prepends prefix to every prompt sent to m. An empty prefix
// returns m unchanged.
func WithPrefix(m Model, prefix string) Model {
	if prefix == "" {
		return m
	}
	return &prefixed{next: m, prefix: prefix}
}

func (p *prefixed) Invoke(ctx context.Context, prompt string) (string, error) {
	return p.next.Invoke(ctx, p.prefix+prompt)
}
