package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/growthplan/internal/profile"
)

func TestProfileCreateFromFlags(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := executeCommand(t, "profile", "create", "--config", env.configPath,
		"--id", "emp-010", "--name", "Grace", "--department", "platform",
		"--learning-pace", "1.5", "--improvement-areas", "testing, estimation")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created profile emp-010 (Grace)")

	p, err := env.store(t).Get(context.Background(), "emp-010")
	require.NoError(t, err)
	assert.Equal(t, "platform", p.Department)
	assert.InDelta(t, 1.5, p.LearningPace, 1e-9)
	assert.Equal(t, []string{"testing", "estimation"}, p.ImprovementAreas)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProfileCreateRejectsInvalidPace(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := executeCommand(t, "profile", "create", "--config", env.configPath,
		"--id", "emp-011", "--name", "Lin", "--learning-pace", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "learning pace")
}

func TestProfileList(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := executeCommand(t, "profile", "list", "--config", env.configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No profiles")

	env.addProfile(t)

	stdout, _, err = executeCommand(t, "profile", "list", "--config", env.configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "emp-001")
	assert.Contains(t, stdout, "testing, estimation")

	stdout, _, err = executeCommand(t, "profile", "list", "--config", env.configPath, "--json")
	require.NoError(t, err)
	var profiles []profile.Profile
	require.NoError(t, json.Unmarshal([]byte(stdout), &profiles))
	require.Len(t, profiles, 1)
	assert.Equal(t, "Ada", profiles[0].Name)
}

func TestProfileShow(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t)
	require.NoError(t, env.store(t).AddFeedback(context.Background(), &profile.Feedback{
		ID:         "fb-1",
		EmployeeID: "emp-001",
		Type:       profile.FeedbackPositive,
		Summary:    "Great incident write-up",
	}))

	stdout, _, err := executeCommand(t, "profile", "show", "emp-001", "--config", env.configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "name: Ada")
	assert.Contains(t, stdout, "feedback: 1 records")
	assert.Contains(t, stdout, "Great incident write-up")

	stdout, _, err = executeCommand(t, "profile", "show", "emp-001", "--config", env.configPath, "--json")
	require.NoError(t, err)
	var out struct {
		Profile  profile.Profile    `json:"profile"`
		Feedback []profile.Feedback `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "emp-001", out.Profile.ID)
	assert.Len(t, out.Feedback, 1)
}

func TestProfileShowMissing(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := executeCommand(t, "profile", "show", "nobody", "--config", env.configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Failed to load profile "nobody"`)
}
