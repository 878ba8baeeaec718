package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/growthplan/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded plan invocations",
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the invocation history",
	Long: `Print the invocations recorded in the history file, oldest first.

Examples:
  growthplan history show
  growthplan history show --learner emp-001 --limit 5
  growthplan history show --json`,
	RunE: runHistoryShow,
}

var (
	historyPath    string
	historyLearner string
	historyLimit   int
	historyJSON    bool
)

func init() {
	historyShowCmd.Flags().StringVar(&historyPath, "path", "", "history file (defaults to history.path in the config)")
	historyShowCmd.Flags().StringVar(&historyLearner, "learner", "", "only show entries for this learner")
	historyShowCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show only the most recent n entries")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "output entries as JSON")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryShow(cmd *cobra.Command, _ []string) error {
	path := historyPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.History.Path
	}
	if path == "" {
		return NewErrorWithSuggestions("History is kept in memory only", nil,
			"Set history.path in the config to record invocations to a file")
	}

	entries, err := history.Load(commandContext(cmd), path)
	if err != nil {
		return HistoryLoadError(path, err)
	}
	entries = filterEntries(entries, historyLearner, historyLimit)

	out := cmd.OutOrStdout()
	if historyJSON {
		return writeJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No recorded invocations.")
		return nil
	}
	fmt.Fprintln(out, historyTable(entries))
	return nil
}

// filterEntries keeps entries for learner (all when empty) and then the last limit of them.
func filterEntries(entries []history.Entry, learner string, limit int) []history.Entry {
	var out []history.Entry
	for _, e := range entries {
		if learner == "" || e.LearnerID == learner {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func historyTable(entries []history.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "LEARNER", "ID", "INPUT", "FALLBACKS")
	for _, e := range entries {
		fingerprint := e.InputFingerprint
		if len(fingerprint) > 12 {
			fingerprint = fingerprint[:12]
		}
		fallbacks := "-"
		if len(e.Fallbacks) > 0 {
			fallbacks = strings.Join(e.Fallbacks, ", ")
		}
		t.Row(e.Timestamp.Format("2006-01-02 15:04:05"), e.LearnerID, e.ID, fingerprint, fallbacks)
	}
	return t.String()
}
