package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/growthplan/internal/profile"
	"github.com/felixgeelhaar/growthplan/internal/tui"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage learner profiles",
	Long:  `List, show and create the learner profiles stored under the data directory.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one profile and its feedback",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a profile",
	Long: `Create a learner profile. Without --id and --name an interactive form is shown.

Examples:
  growthplan profile create
  growthplan profile create --id emp-001 --name "Ada" --department engineering \
    --improvement-areas "testing,estimation" --objectives "Lead a design review"`,
	RunE: runProfileCreate,
}

var (
	profileJSON  bool
	profileDraft tui.ProfileDraft
)

func init() {
	profileListCmd.Flags().BoolVar(&profileJSON, "json", false, "output as JSON")
	profileShowCmd.Flags().BoolVar(&profileJSON, "json", false, "output as JSON")

	f := profileCreateCmd.Flags()
	f.StringVar(&profileDraft.ID, "id", "", "employee id")
	f.StringVar(&profileDraft.Name, "name", "", "learner name")
	f.StringVar(&profileDraft.Email, "email", "", "email address")
	f.StringVar(&profileDraft.Department, "department", "", "department, used as the learner's domain")
	f.StringVar(&profileDraft.LearningStyle, "learning-style", "", "preferred learning style")
	f.StringVar(&profileDraft.LearningPace, "learning-pace", "", "learning pace between 0.1 and 3.0")
	f.StringVar(&profileDraft.Strengths, "strengths", "", "comma separated strengths")
	f.StringVar(&profileDraft.ImprovementAreas, "improvement-areas", "", "comma separated improvement areas")
	f.StringVar(&profileDraft.Objectives, "objectives", "", "current objectives, one per line")

	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileCreateCmd)
	rootCmd.AddCommand(profileCmd)
}

func openStore() (*profile.FileStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return profile.NewFileStore(cfg.DataDir)
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	profiles, err := store.List(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if profileJSON {
		return writeJSON(out, profiles)
	}
	if len(profiles) == 0 {
		fmt.Fprintf(out, "No profiles in %s\n", store.Root())
		return nil
	}
	fmt.Fprintln(out, profileTable(profiles))
	return nil
}

func profileTable(profiles []*profile.Profile) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "DEPARTMENT", "PACE", "IMPROVEMENT AREAS")
	for _, p := range profiles {
		t.Row(p.ID, p.Name, p.Department, fmt.Sprintf("%.1f", p.LearningPace), strings.Join(p.ImprovementAreas, ", "))
	}
	return t.String()
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	p, err := store.Get(ctx, args[0])
	if err != nil {
		return ProfileLoadError(args[0], err)
	}
	feedback, err := store.ListFeedback(ctx, p.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if profileJSON {
		return writeJSON(out, struct {
			Profile  *profile.Profile    `json:"profile"`
			Feedback []*profile.Feedback `json:"feedback"`
		}{p, feedback})
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	fmt.Fprint(out, string(data))
	if len(feedback) > 0 {
		fmt.Fprintf(out, "\nfeedback: %d records\n", len(feedback))
		for _, f := range feedback {
			fmt.Fprintf(out, "  - %s %s [%s] %s\n", f.CreatedAt.Format("2006-01-02"), f.ID, f.Type, f.Summary)
		}
	}
	return nil
}

func runProfileCreate(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	draft := profileDraft
	if draft.ID == "" || draft.Name == "" {
		if !tui.ShouldPrompt() {
			return NewErrorWithSuggestions("Profile id and name are required", nil,
				"Pass --id and --name when not running in a terminal",
				"Run in a terminal to use the interactive form")
		}
		draft, err = tui.PromptForProfile(draft)
		if err != nil {
			return err
		}
	}

	p, err := draft.Profile()
	if err != nil {
		return ValidationError("profile", err, "see growthplan profile create --help")
	}
	if err := store.Save(commandContext(cmd), p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s (%s)\n", p.ID, p.Name)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
