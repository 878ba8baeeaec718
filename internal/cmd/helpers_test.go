package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/growthplan/internal/config"
	"github.com/felixgeelhaar/growthplan/internal/profile"
	"github.com/felixgeelhaar/growthplan/internal/tui"
)

// resetFlags restores every package-level flag variable, since cobra keeps
// parsed values between executions of the same command tree.
func resetFlags() {
	cfgFile = config.DefaultPath
	dataDirFlag = ""
	planProfile = ""
	planFormat = formatText
	planSave = false
	planInteractive = false
	planNoColor = false
	planQuiet = false
	profileJSON = false
	profileDraft = tui.ProfileDraft{}
	historyPath = ""
	historyLearner = ""
	historyLimit = 0
	historyJSON = false
	configForce = false
	doctorJSON = false
	versionVerbose = false
	versionJSON = false
}

// executeCommand runs the root command with args and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// testEnv is a workspace with a config file, a data directory and a history path.
type testEnv struct {
	dir         string
	configPath  string
	dataDir     string
	historyPath string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GROWTHPLAN_TELEMETRY", "")
	t.Setenv("GROWTHPLAN_LOG_LEVEL", "error")

	dir := t.TempDir()
	env := testEnv{
		dir:         dir,
		configPath:  filepath.Join(dir, "config.yaml"),
		dataDir:     filepath.Join(dir, "data"),
		historyPath: filepath.Join(dir, "history.jsonl"),
	}

	cfg := config.Default()
	cfg.Advisory.Enabled = false
	cfg.DataDir = env.dataDir
	cfg.History.Path = env.historyPath
	require.NoError(t, config.Save(cfg, env.configPath))
	return env
}

func (e testEnv) store(t *testing.T) *profile.FileStore {
	t.Helper()
	store, err := profile.NewFileStore(e.dataDir)
	require.NoError(t, err)
	return store
}

func (e testEnv) addProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p := &profile.Profile{
		ID:                "emp-001",
		Name:              "Ada",
		Department:        "engineering",
		LearningPace:      1,
		Strengths:         []string{"debugging"},
		ImprovementAreas:  []string{"testing", "estimation"},
		CurrentObjectives: []string{"Lead a design review"},
	}
	require.NoError(t, e.store(t).Save(context.Background(), p))
	return p
}
