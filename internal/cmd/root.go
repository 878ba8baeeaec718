package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/growthplan/internal/config"
)

var (
	cfgFile     string
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "growthplan",
	Short: "Personalized employee growth planning",
	Long: `growthplan builds a personalized growth plan for a learner from their profile.
It analyses the learner, gathers supporting knowledge, diagnoses skill gaps,
schedules concrete learning tasks and milestones, and summarizes the result.
Every advisory step has a deterministic fallback, so a plan is produced even
when no text-generation service is configured.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands use for cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (overrides data_dir in the config file)")
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, ConfigLoadError(cfgFile, err)
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	return cfg, nil
}
