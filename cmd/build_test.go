package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/config"
	"github.com/spigell/skillmatch/internal/cv"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Decode(v)
	require.NoError(t, err)
	return cfg
}

func TestBuildServicesWithoutBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = false

	s, err := buildServices(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.close()

	assert.False(t, s.gateway.Available())
	assert.Nil(t, s.generator)

	profile := s.analyzer.Analyze(context.Background(), "Jean Dupont\njean.dupont@email.com\nReact, Node.js, 5 years experience\n2019-2024")
	assert.Equal(t, "Jean Dupont", profile.Name)
	assert.Equal(t, cv.MethodHeuristic, profile.Metadata.Method)
}

func TestNewCompleter(t *testing.T) {
	cfg := testConfig(t)

	cfg.AI.Chat.Endpoint = ""
	_, err := newCompleter(context.Background(), cfg.AI, zap.NewNop())
	assert.ErrorContains(t, err, "endpoint")

	cfg.AI.Chat.Endpoint = "https://models.example.com/chat/completions"
	cfg.AI.Chat.APIKey = "secret"
	cfg.AI.Chat.APIKeyEnv = ""
	c, err := newCompleter(context.Background(), cfg.AI, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "chat", c.Provider())

	cfg.AI.Provider = "openai"
	_, err = newCompleter(context.Background(), cfg.AI, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported")

	cfg.AI.Enabled = false
	_, err = newCompleter(context.Background(), cfg.AI, zap.NewNop())
	assert.ErrorIs(t, err, errAIDisabled)
}

func TestRedactedHidesSecrets(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Chat.APIKey = "chat-secret"
	cfg.Cache.Redis.Password = "redis-secret"

	out := redacted(cfg)
	assert.Equal(t, "***", out.AI.Chat.APIKey)
	assert.Equal(t, "***", out.Cache.Redis.Password)
	assert.Equal(t, "chat-secret", cfg.AI.Chat.APIKey)
}

func TestReadJobsAndProfiles(t *testing.T) {
	dir := t.TempDir()

	many := filepath.Join(dir, "jobs.json")
	require.NoError(t, os.WriteFile(many, []byte(`[{"title":"Dev"},{"title":"QA"}]`), 0o600))
	jobs, err := readJobs(many)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "QA", jobs[1].Title)

	one := filepath.Join(dir, "job.json")
	require.NoError(t, os.WriteFile(one, []byte(`{"title":"Dev","requirements":"Go"}`), 0o600))
	jobs, err = readJobs(one)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Go", jobs[0].Requirements)

	profiles := filepath.Join(dir, "profiles.json")
	require.NoError(t, os.WriteFile(profiles, []byte(`[{"name":"Alice","skills":["Go"],"yearsExperience":4}]`), 0o600))
	got, err := readProfiles(profiles)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].YearsExperience)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`nope`), 0o600))
	_, err = readJobs(bad)
	assert.Error(t, err)
}

func TestCandidatesMixesProfilesAndDocuments(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = false
	s, err := buildServices(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	dir := t.TempDir()
	profiles := filepath.Join(dir, "profiles.json")
	require.NoError(t, os.WriteFile(profiles, []byte(`{"name":"Alice"}`), 0o600))
	cvFile := filepath.Join(dir, "jean.txt")
	require.NoError(t, os.WriteFile(cvFile, []byte("Jean Dupont\njean.dupont@email.com\nReact, Node.js, 5 years experience\n2019-2024"), 0o600))
	short := filepath.Join(dir, "short.txt")
	require.NoError(t, os.WriteFile(short, []byte("Jean"), 0o600))

	got, err := s.candidates(context.Background(), []string{profiles, cvFile, short})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "Jean Dupont", got[1].Name)
}
