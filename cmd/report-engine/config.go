// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/report-engine/internal/citation"
	"github.com/pdiddy/report-engine/internal/report"
	"github.com/pdiddy/report-engine/internal/secrets"
	"github.com/pdiddy/report-engine/pkg/types"
)

// Config keys, as written in report-engine.yaml under "report:".
// Environment overrides use REPORT_ENGINE_ plus the key with dots as
// underscores, e.g. REPORT_ENGINE_REPORT_MODEL_API_KEY.
const (
	keyProvider     = "report.model.provider"
	keyModel        = "report.model.model"
	keyAPIKey       = "report.model.api_key"
	keyBaseURL      = "report.model.base_url"
	keyMaxRetries   = "report.model.max_retries"
	keyMaxTokens    = "report.model.max_tokens"
	keyImage        = "report.model.image"
	keyPromptPrefix = "report.model.prompt_prefix"
	keyCachePath    = "report.model.cache_path"
	keyTimeout      = "report.model.timeout"
	keyUserAgent    = "report.model.user_agent"

	keyHeadings = "report.reference.headings"
	keyMaxChars = "report.reference.max_chars"
	keyEllipsis = "report.reference.ellipsis"

	keyOutputDir = "report.output.dir"
	keyLabel     = "report.output.label"
	keyEncoding  = "report.output.encoding"

	keyWorkers = "report.workers"
)

func init() {
	viper.SetDefault(keyProvider, string(types.ProviderClaude))
	viper.SetDefault(keyMaxRetries, 3)
	viper.SetDefault(keyMaxTokens, 8192)
	viper.SetDefault(keyTimeout, 5*time.Minute)
	viper.SetDefault(keyUserAgent, "report-engine/"+version)

	viper.SetDefault(keyHeadings, []string{citation.DefaultHeading})
	viper.SetDefault(keyMaxChars, citation.DefaultMaxChars)
	viper.SetDefault(keyEllipsis, citation.DefaultEllipsis)

	viper.SetDefault(keyOutputDir, report.DefaultDir)
	viper.SetDefault(keyLabel, report.DefaultLabel)
	viper.SetDefault(keyEncoding, report.DefaultEncoding)

	viper.SetDefault(keyWorkers, report.DefaultWorkers)
}

// reportConfig assembles the effective configuration from viper. An API key
// missing from config falls back to the provider's file in .secrets/.
func reportConfig() types.ReportConfig {
	provider := types.ModelProvider(viper.GetString(keyProvider))

	apiKey := viper.GetString(keyAPIKey)
	if apiKey == "" {
		apiKey = secrets.APIKey(loadedSecrets, provider)
	}

	return types.ReportConfig{
		AI: types.AIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration(keyTimeout),
				UserAgent: viper.GetString(keyUserAgent),
			},
			Provider:     provider,
			Model:        viper.GetString(keyModel),
			APIKey:       apiKey,
			BaseURL:      viper.GetString(keyBaseURL),
			MaxRetries:   viper.GetInt(keyMaxRetries),
			MaxTokens:    viper.GetInt(keyMaxTokens),
			Image:        viper.GetString(keyImage),
			PromptPrefix: viper.GetString(keyPromptPrefix),
			CachePath:    viper.GetString(keyCachePath),
		},
		Reference: types.ReferenceConfig{
			Headings: viper.GetStringSlice(keyHeadings),
			MaxChars: viper.GetInt(keyMaxChars),
			Ellipsis: viper.GetString(keyEllipsis),
		},
		Output: types.OutputConfig{
			Dir:      viper.GetString(keyOutputDir),
			Label:    viper.GetString(keyLabel),
			Encoding: viper.GetString(keyEncoding),
		},
		Workers: viper.GetInt(keyWorkers),
	}
}
