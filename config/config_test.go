package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DB_URL", "LLM_PROVIDER", "LLM_MODEL", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"GEMINI_API_KEY", "LOG_LEVEL", "LOG_FORMAT", "REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "color", cfg.LogFormat)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestLoadFromEnvAndDotEnv(t *testing.T) {
	clearEnv(t)

	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ANTHROPIC_API_KEY=from-dotenv\nPORT=9000\n"), 0o600))

	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("REQUEST_TIMEOUT", "15s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.LLMProvider)
	assert.Equal(t, "from-dotenv", cfg.APIKey())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "openai with key",
			cfg:  Config{LLMProvider: ProviderOpenAI, OpenAIAPIKey: "k", RequestTimeout: time.Second},
		},
		{
			name:    "gemini without key",
			cfg:     Config{LLMProvider: ProviderGemini, OpenAIAPIKey: "k", RequestTimeout: time.Second},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     Config{LLMProvider: "mistral", RequestTimeout: time.Second},
			wantErr: true,
		},
		{
			name:    "zero timeout",
			cfg:     Config{LLMProvider: ProviderGemini, GeminiAPIKey: "k"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
