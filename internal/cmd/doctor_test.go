package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/growthplan/internal/health"
)

func TestDoctorDegradedWithoutAdvisory(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := executeCommand(t, "doctor", "--config", env.configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "advisory-provider")
	assert.Contains(t, stdout, "advisory service disabled")
	assert.Contains(t, stdout, "Overall: degraded")

	stdout, _, err = executeCommand(t, "doctor", "--config", env.configPath, "--json")
	require.NoError(t, err)
	var report health.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, health.StatusDegraded, report.Status)

	names := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"advisory-provider", "data-dir", "history", "search"}, names)
}

func TestDoctorUnhealthyDataDir(t *testing.T) {
	env := newTestEnv(t)
	blocker := filepath.Join(env.dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	stdout, _, err := executeCommand(t, "doctor", "--config", env.configPath, "--data-dir", blocker)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health checks failed")
	assert.Contains(t, stdout, "Overall: unhealthy")
}
