package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skillmatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), Options{})
	require.NoError(t, err)

	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, ProviderChat, cfg.AI.Provider)
	assert.Equal(t, "AZURE_API_KEY", cfg.AI.Chat.APIKeyEnv)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 90*time.Second, cfg.Retry.BaseTimeout)
	assert.Equal(t, 30*time.Second, cfg.Retry.TimeoutStep)
	assert.Equal(t, "Français", cfg.Defaults.Language)
	assert.Equal(t, "France", cfg.Defaults.Region)
	assert.Equal(t, 50, cfg.Validation.Threshold)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Cache.Redis.TTL)
	assert.Equal(t, ":3001", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Match.Concurrency)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
ai:
  provider: gemini
  gemini:
    model: gemini-2.5-flash
retry:
  max-attempts: 5
  base-delay: 500ms
validation:
  threshold: 60
cache:
  enabled: true
  redis:
    addr: redis:6379
`)
	t.Setenv("SKILLMATCH_SERVER_ADDR", ":8080")
	t.Setenv("SKILLMATCH_AI_CHAT_ENDPOINT", "https://models.example.com/chat/completions")

	cfg, err := Load(viper.New(), Options{File: path})
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Gemini.Model)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, 60, cfg.Validation.Threshold)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://models.example.com/chat/completions", cfg.AI.Chat.Endpoint)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SKILLMATCH_MATCH_CONCURRENCY=7\n"), 0o600))
	t.Setenv("SKILLMATCH_MATCH_CONCURRENCY", "")
	os.Unsetenv("SKILLMATCH_MATCH_CONCURRENCY")
	t.Chdir(dir)

	cfg, err := Load(viper.New(), Options{DotEnv: []string{envFile, filepath.Join(dir, "missing.env")}})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Match.Concurrency)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "provider", body: "ai:\n  provider: openai\n"},
		{name: "threshold", body: "validation:\n  threshold: 150\n"},
		{name: "concurrency", body: "match:\n  concurrency: 0\n"},
		{name: "endpoint", body: "ai:\n  chat:\n    endpoint: not a url\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(viper.New(), Options{File: writeConfig(t, tt.body)})
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), Options{File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestSecretSources(t *testing.T) {
	c := &ChatConfig{APIKey: "inline", APIKeyEnv: "AZURE_API_KEY", APIKeyFile: "/run/key"}
	src := c.Secret()
	assert.Equal(t, "inline", src.Value)
	assert.Equal(t, "AZURE_API_KEY", src.Env)
	assert.Equal(t, "/run/key", src.File)

	g := (&GeminiConfig{APIKeyEnv: "GEMINI_API_KEY"}).Secret()
	assert.Equal(t, "GEMINI_API_KEY", g.Env)
}
