package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/growthplan/internal/config"
)

func TestConfigInit(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	stdout, _, err := executeCommand(t, "config", "init", "--config", path, "--data-dir", "/srv/growth")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote configuration to "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/growth", cfg.DataDir)

	_, _, err = executeCommand(t, "config", "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCommand(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestConfigShowMasksSecrets(t *testing.T) {
	t.Setenv("GROWTHPLAN_TEST_KEY", "sk-very-secret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `advisory:
  enabled: true
  provider:
    name: anthropic
    kind: anthropic
    enabled: true
    api_key: ${GROWTHPLAN_TEST_KEY}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	stdout, _, err := executeCommand(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "sk-very-secret")
	assert.Contains(t, stdout, "********")
	assert.Contains(t, stdout, "kind: anthropic")
}

func TestConfigShowInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  type: carrier-pigeon\n"), 0o600))

	_, _, err := executeCommand(t, "config", "show", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "growthplan config init")
}
