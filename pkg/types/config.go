// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for the model backends.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "report-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds settings for the model collaborator.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the backend: claude, openai, gemini, or container.
	Provider ModelProvider `json:"provider" yaml:"provider"`

	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint of the openai and gemini providers,
	// e.g. for OpenAI-compatible servers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxTokens caps the length of each response (default 8192).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Image is the container image for the container provider.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`

	// PromptPrefix is prepended to every prompt.
	PromptPrefix string `json:"prompt_prefix,omitempty" yaml:"prompt_prefix,omitempty"`

	// CachePath is the SQLite file caching round trips. Empty disables caching.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty"`
}
