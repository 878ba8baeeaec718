package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/growthplan/internal/errors"
	"github.com/felixgeelhaar/growthplan/internal/history"
	"github.com/felixgeelhaar/growthplan/internal/pipeline"
	"github.com/felixgeelhaar/growthplan/internal/profile"
	"github.com/felixgeelhaar/growthplan/internal/tui"
)

func TestPlanJSONWithoutAdvisory(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t)

	stdout, stderr, err := executeCommand(t, "plan", "--config", env.configPath, "--profile", "emp-001", "--format", "json", "--save")
	require.NoError(t, err, stderr)

	var report pipeline.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "emp-001", report.LearnerID)
	assert.False(t, report.AdvisoryAvailable)
	assert.NotEmpty(t, report.Fallbacks)
	require.NotNil(t, report.Plan)
	assert.NotEmpty(t, report.Plan.Tasks)
	assert.NotEmpty(t, report.Synthesis.ExecutiveSummary)

	planPath := filepath.Join(env.dataDir, "plans", "emp-001.json")
	assert.FileExists(t, planPath)
	assert.Contains(t, stderr, planPath)

	entries, err := history.Read(env.historyPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "emp-001", entries[0].LearnerID)
	assert.Equal(t, report.Fallbacks, entries[0].Fallbacks)
}

func TestPlanTextAndYAML(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t)

	stdout, _, err := executeCommand(t, "plan", "--config", env.configPath, "--profile", "emp-001", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Growth plan for Ada")
	assert.Contains(t, stdout, "Advisory service unavailable")

	stdout, _, err = executeCommand(t, "plan", "--config", env.configPath, "--profile", "emp-001", "--format", "yaml")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "emp-001", doc["learner_id"])
	assert.Contains(t, doc, "growth_strategy")
}

func TestPlanDataDirFlagOverridesConfig(t *testing.T) {
	env := newTestEnv(t)
	other := filepath.Join(env.dir, "other")
	store, err := profile.NewFileStore(other)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), &profile.Profile{ID: "emp-002", Name: "Lin"}))

	_, _, err = executeCommand(t, "plan", "--config", env.configPath, "--data-dir", other, "--profile", "emp-002", "--format", "json")
	require.NoError(t, err)
}

func TestPlanUnknownProfile(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := executeCommand(t, "plan", "--config", env.configPath, "--profile", "missing")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeProfileNotFound))
	assert.Contains(t, err.Error(), "growthplan profile list")
}

func TestPlanInvalidFormat(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t)

	_, _, err := executeCommand(t, "plan", "--config", env.configPath, "--profile", "emp-001", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid value for --format")
}

func TestPlanMissingCorpus(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t)

	cfgYAML := "data_dir: " + env.dataDir + "\nhistory:\n  path: " + env.historyPath +
		"\nsearch:\n  type: corpus\n  corpus_path: " + filepath.Join(env.dir, "nope.yaml") + "\n"
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfgYAML), 0o600))

	_, _, err := executeCommand(t, "plan", "--config", env.configPath, "--profile", "emp-001")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))
}

func TestFollowUpFeedback(t *testing.T) {
	prof := &profile.Profile{ID: "emp-001", Name: "Ada", MentorID: "mentor-1"}
	report := &pipeline.Report{
		GeneratedAt:   time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		Understanding: pipeline.Understanding{Confidence: 0.7},
	}
	answers := []profile.QuestionAnswer{{Question: "q", Answer: "a"}}

	fb := followUpFeedback(prof, report, answers)
	require.NoError(t, fb.Validate())
	assert.Equal(t, "emp-001", fb.EmployeeID)
	assert.Equal(t, "mentor-1", fb.MentorID)
	assert.Equal(t, profile.FeedbackDevelopmental, fb.Type)
	assert.Equal(t, report.GeneratedAt, fb.CreatedAt)
	assert.Equal(t, answers, fb.Answers)
}

func TestCollectFollowUpsWithoutQuestions(t *testing.T) {
	var out strings.Builder
	store := profile.NewMemoryStore()
	err := collectFollowUps(context.Background(), &out, store, &profile.Profile{ID: "emp-001"}, &pipeline.Report{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No follow-up questions")
}

func TestPlanReportsPhaseProgress(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t)

	_, stderr, err := executeCommand(t, "plan", "--config", env.configPath, "--profile", "emp-001", "--format", "json")
	require.NoError(t, err)
	if !tui.IsInteractive() {
		for _, phase := range pipeline.Phases {
			assert.Contains(t, stderr, "✓ "+phase)
		}
	}

	_, stderr, err = executeCommand(t, "plan", "--config", env.configPath, "--profile", "emp-001", "--format", "json", "--quiet")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "✓ ")
}
