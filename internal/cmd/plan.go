package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/growthplan/internal/pipeline"
	"github.com/felixgeelhaar/growthplan/internal/profile"
	"github.com/felixgeelhaar/growthplan/internal/progress"
	"github.com/felixgeelhaar/growthplan/internal/telemetry"
	"github.com/felixgeelhaar/growthplan/internal/tui"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a growth plan for a learner",
	Long: `Run every planning phase for the learner's stored profile and print the report.

Examples:
  growthplan plan --profile emp-001
  growthplan plan --profile emp-001 --format json --save
  growthplan plan --profile emp-001 --interactive`,
	RunE: runPlan,
}

var (
	planProfile     string
	planFormat      string
	planSave        bool
	planInteractive bool
	planNoColor     bool
	planQuiet       bool
)

func init() {
	planCmd.Flags().StringVarP(&planProfile, "profile", "p", "", "learner profile id")
	planCmd.Flags().StringVarP(&planFormat, "format", "f", formatText, "output format: text, json or yaml")
	planCmd.Flags().BoolVar(&planSave, "save", false, "save the growth strategy under data_dir/plans")
	planCmd.Flags().BoolVarP(&planInteractive, "interactive", "i", false, "answer follow-up questions and store them as feedback")
	planCmd.Flags().BoolVar(&planNoColor, "no-color", false, "disable styled text output")
	planCmd.Flags().BoolVarP(&planQuiet, "quiet", "q", false, "do not report phase progress on stderr")
	_ = planCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(planFormat)
	if err := validateFormat(format); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger, m, cleanup := setupObservability(ctx, cfg, cmd.ErrOrStderr())
	defer cleanup()

	ctx, span := telemetry.StartCommandSpan(ctx, "plan")
	defer span.End()

	store, err := profile.NewFileStore(cfg.DataDir)
	if err != nil {
		return err
	}
	prof, err := store.Get(ctx, planProfile)
	if err != nil {
		return ProfileLoadError(planProfile, err)
	}

	searcher, err := newSearchProvider(cfg)
	if err != nil {
		return err
	}
	sink, closeSink, err := newHistorySink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()
	gen, closeGen := newGenerator(cfg, m, logger)
	defer closeGen()

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(m),
		pipeline.WithHistory(sink),
		pipeline.WithSettings(pipelineSettings(cfg)),
	}
	var indicator *progress.Indicator
	if !planQuiet {
		indicator = progress.NewIndicator(progress.Config{
			Writer:      cmd.ErrOrStderr(),
			Phases:      pipeline.Phases,
			ShowSpinner: tui.IsInteractive(),
		})
		indicator.Start()
		opts = append(opts, pipeline.WithObserver(indicator))
	}

	report, err := pipeline.New(gen, searcher, opts...).Run(ctx, prof)
	if indicator != nil {
		indicator.Stop()
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), report, format, reportStyles(planNoColor)); err != nil {
		return err
	}

	if planSave {
		path, err := store.SavePlan(ctx, prof.ID, report.Plan)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved growth strategy to %s\n", path)
	}

	if planInteractive {
		if err := collectFollowUps(ctx, cmd.ErrOrStderr(), store, prof, report); err != nil {
			return err
		}
	}

	telemetry.RecordSuccess(span)
	return nil
}

// collectFollowUps asks the report's follow-up questions and stores the answers.
func collectFollowUps(ctx context.Context, w io.Writer, store profile.Store, prof *profile.Profile, report *pipeline.Report) error {
	questions := report.Understanding.FollowUpQuestions
	if !report.Understanding.NeedsMoreInfo || len(questions) == 0 {
		fmt.Fprintln(w, "No follow-up questions for this learner.")
		return nil
	}
	if !tui.ShouldPrompt() {
		fmt.Fprintln(w, "Skipping follow-up questions: not an interactive terminal.")
		return nil
	}

	answers, err := tui.AskFollowUps(questions)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		return nil
	}

	fb := followUpFeedback(prof, report, answers)
	if err := store.AddFeedback(ctx, fb); err != nil {
		return err
	}
	fmt.Fprintf(w, "Stored %d answers as feedback %s\n", len(answers), fb.ID)
	return nil
}

func followUpFeedback(prof *profile.Profile, report *pipeline.Report, answers []profile.QuestionAnswer) *profile.Feedback {
	return &profile.Feedback{
		ID:              uuid.NewString(),
		EmployeeID:      prof.ID,
		MentorID:        prof.MentorID,
		CreatedAt:       report.GeneratedAt,
		Type:            profile.FeedbackDevelopmental,
		Category:        "follow_up",
		Summary:         fmt.Sprintf("Answers to %d follow-up questions", len(answers)),
		ConfidenceLevel: report.Understanding.Confidence,
		Answers:         answers,
	}
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return ValidationError("--format", format, "text, json, yaml")
	}
}

func reportStyles(noColor bool) tui.Styles {
	if noColor {
		return tui.PlainStyles()
	}
	return tui.DefaultStyles()
}

func writeReport(w io.Writer, report *pipeline.Report, format string, styles tui.Styles) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		data, err := toYAML(report)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprint(w, tui.RenderReport(report, styles))
		return err
	}
}

// toYAML renders v as YAML using its JSON field names.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report as YAML: %w", err)
	}
	return out, nil
}
