// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/report-engine/pkg/types"
)

func TestReconcileText(t *testing.T) {
	in := strings.NewReader("A[5]. B[2]. C[5].\n\n参考文献\n[5] Some long description text here\n[2] Short")
	var out, stats bytes.Buffer

	require.NoError(t, reconcileText(in, &out, &stats, types.ReferenceConfig{}))
	assert.Equal(t, "A[1]. B[2]. C[1].\n\n参考文献\n[1] Some long descriptio...\n[2] Short", out.String())
	assert.Equal(t, "markers 2, section found true, entries parsed 2, kept 2\n", stats.String())
}

func TestReportConfigDefaults(t *testing.T) {
	loadedSecrets = map[string]string{"anthropic-api-key": "sk-from-secrets"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg := reportConfig()
	assert.Equal(t, types.ProviderClaude, cfg.AI.Provider)
	assert.Equal(t, "sk-from-secrets", cfg.AI.APIKey)
	assert.Equal(t, 3, cfg.AI.MaxRetries)
	assert.Equal(t, 8192, cfg.AI.MaxTokens)
	assert.Equal(t, []string{"参考文献"}, cfg.Reference.Headings)
	assert.Equal(t, 20, cfg.Reference.MaxChars)
	assert.Equal(t, "...", cfg.Reference.Ellipsis)
	assert.Equal(t, "report", cfg.Output.Dir)
	assert.Equal(t, "技术分析报告", cfg.Output.Label)
	assert.Equal(t, "utf-8", cfg.Output.Encoding)
	assert.Equal(t, 4, cfg.Workers)
}

func TestReportConfigOverrides(t *testing.T) {
	viper.Set(keyProvider, "openai")
	viper.Set(keyAPIKey, "sk-config")
	viper.Set(keyMaxChars, 30)
	t.Cleanup(func() {
		viper.Set(keyProvider, nil)
		viper.Set(keyAPIKey, nil)
		viper.Set(keyMaxChars, nil)
	})
	loadedSecrets = map[string]string{"openai-api-key": "sk-from-secrets"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg := reportConfig()
	assert.Equal(t, types.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "sk-config", cfg.AI.APIKey, "config key wins over secrets")
	assert.Equal(t, 30, cfg.Reference.MaxChars)
}
