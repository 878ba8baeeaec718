package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/growthplan/internal/health"
	"github.com/felixgeelhaar/growthplan/internal/search"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the advisory provider, storage and search backend",
	Long: `Run health checks against everything a planning run depends on.

Degraded checks still allow planning; the affected phases use their defaults.
The command fails only when a check is unhealthy.`,
	RunE: runDoctor,
}

var doctorJSON bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manager := health.NewManager()

	client, closeProvider, reason := newProviderClient(cfg)
	defer closeProvider()
	manager.AddChecker(health.NewProviderChecker(client, reason))

	manager.AddChecker(health.NewDirChecker("data-dir", cfg.DataDir))
	if cfg.History.Path != "" {
		manager.AddChecker(health.NewDirChecker("history", filepath.Dir(cfg.History.Path)))
	}

	searcher, err := newSearchProvider(cfg)
	if err != nil {
		searcher = search.ProviderFunc(func(context.Context, string, int) ([]search.Document, error) {
			return nil, err
		})
	}
	manager.AddChecker(health.NewSearchChecker(searcher, cfg.Search.Type))

	report := manager.Check(commandContext(cmd))

	out := cmd.OutOrStdout()
	if doctorJSON {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, doctorTable(report))
		fmt.Fprintf(out, "Overall: %s\n", report.Status)
	}

	if report.Status == health.StatusUnhealthy {
		return NewErrorWithSuggestions("One or more health checks failed", nil,
			"Check data_dir and history.path in the config",
			"Show the effective configuration: growthplan config show")
	}
	return nil
}

func doctorTable(report health.Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CHECK", "STATUS", "MESSAGE")
	for _, r := range report.Results {
		t.Row(r.Name, r.Status.String(), r.Message)
	}
	return t.String()
}
