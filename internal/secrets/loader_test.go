package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("  from-file \n"), 0o600))
	t.Setenv("SKILLMATCH_TEST_KEY", "from-env")

	secret, err := Load(Source{Name: "api key", File: path, Env: "SKILLMATCH_TEST_KEY", Value: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "from-file", secret)
}

func TestLoadFallsBackToEnvThenValue(t *testing.T) {
	t.Setenv("SKILLMATCH_TEST_KEY", " from-env ")

	secret, err := Load(Source{Env: "SKILLMATCH_TEST_KEY", Value: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", secret)

	secret, err = Load(Source{Env: "SKILLMATCH_MISSING_KEY", Value: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "inline", secret)
}

func TestLoadErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, []byte("  "), 0o600))

	_, err := Load(Source{Name: "api key", File: empty})
	assert.ErrorContains(t, err, "is empty")

	_, err = Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorContains(t, err, "reading api key")

	_, err = Load(Source{Name: "api key", Env: "SKILLMATCH_MISSING_KEY"})
	assert.ErrorContains(t, err, "set SKILLMATCH_MISSING_KEY")
}
