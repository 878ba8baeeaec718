package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/growthplan/internal/profile"
)

// Prompt represents a simple interactive prompt configuration
type Prompt struct {
	Message     string
	Default     string
	Placeholder string
	Required    bool
}

// PromptForString displays an interactive prompt and returns the user's input
func PromptForString(p Prompt) (string, error) {
	value := p.Default

	input := huh.NewInput().
		Title(p.Message).
		Placeholder(p.Placeholder).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input))

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	value = strings.TrimSpace(value)
	if p.Required && value == "" {
		return "", fmt.Errorf("value is required")
	}

	return value, nil
}

// PromptForConfirmation displays a yes/no confirmation prompt
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(confirm))

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}

// AskFollowUps asks each question in turn. Blank answers are dropped.
func AskFollowUps(questions []string) ([]profile.QuestionAnswer, error) {
	if len(questions) == 0 {
		return nil, nil
	}

	answers := make([]string, len(questions))
	fields := make([]huh.Field, len(questions))
	for i, q := range questions {
		fields[i] = huh.NewText().
			Title(q).
			CharLimit(1000).
			Value(&answers[i])
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}

	return PairAnswers(questions, answers), nil
}

// PairAnswers zips questions with answers, skipping blank answers.
func PairAnswers(questions, answers []string) []profile.QuestionAnswer {
	var out []profile.QuestionAnswer
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		a := strings.TrimSpace(answers[i])
		if a == "" {
			continue
		}
		out = append(out, profile.QuestionAnswer{Question: q, Answer: a})
	}
	return out
}

// ProfileDraft holds the raw form values for a new profile.
type ProfileDraft struct {
	ID               string
	Name             string
	Email            string
	Department       string
	LearningStyle    string
	LearningPace     string
	Strengths        string
	ImprovementAreas string
	Objectives       string
}

// LearningStyles lists the styles offered by the profile form.
var LearningStyles = []string{"visual", "auditory", "reading", "kinesthetic"}

// PromptForProfile runs the profile creation form.
func PromptForProfile(draft ProfileDraft) (ProfileDraft, error) {
	if draft.LearningPace == "" {
		draft.LearningPace = strconv.FormatFloat(profile.DefaultLearningPace, 'f', 1, 64)
	}
	if draft.LearningStyle == "" {
		draft.LearningStyle = LearningStyles[0]
	}

	styleOptions := make([]huh.Option[string], len(LearningStyles))
	for i, s := range LearningStyles {
		styleOptions[i] = huh.NewOption(s, s)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Employee ID").Value(&draft.ID).Validate(func(s string) error {
				if !profile.ValidID(strings.TrimSpace(s)) {
					return fmt.Errorf("use letters, digits, '.', '_' or '-'")
				}
				return nil
			}),
			huh.NewInput().Title("Name").Value(&draft.Name).Validate(required("name")),
			huh.NewInput().Title("Email").Value(&draft.Email),
			huh.NewInput().Title("Department").Value(&draft.Department),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Preferred learning style").Options(styleOptions...).Value(&draft.LearningStyle),
			huh.NewInput().Title("Learning pace (0.1 - 3.0)").Value(&draft.LearningPace).Validate(func(s string) error {
				_, err := ParsePace(s)
				return err
			}),
		),
		huh.NewGroup(
			huh.NewText().Title("Strengths (comma separated)").Value(&draft.Strengths),
			huh.NewText().Title("Improvement areas (comma separated)").Value(&draft.ImprovementAreas),
			huh.NewText().Title("Current objectives (one per line)").Value(&draft.Objectives),
		),
	)

	if err := form.Run(); err != nil {
		return draft, fmt.Errorf("prompt failed: %w", err)
	}
	return draft, nil
}

// Profile converts the draft into a profile. Timestamps are left to the store.
func (d ProfileDraft) Profile() (*profile.Profile, error) {
	pace, err := ParsePace(d.LearningPace)
	if err != nil {
		return nil, err
	}
	p := &profile.Profile{
		ID:                     strings.TrimSpace(d.ID),
		Name:                   strings.TrimSpace(d.Name),
		Email:                  strings.TrimSpace(d.Email),
		Department:             strings.TrimSpace(d.Department),
		PreferredLearningStyle: d.LearningStyle,
		LearningPace:           pace,
		Strengths:              SplitList(d.Strengths),
		ImprovementAreas:       SplitList(d.ImprovementAreas),
		CurrentObjectives:      SplitLines(d.Objectives),
	}
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParsePace parses a learning pace. Blank means the default pace.
func ParsePace(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return profile.DefaultLearningPace, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("learning pace must be a number")
	}
	if v < profile.MinLearningPace || v > profile.MaxLearningPace {
		return 0, fmt.Errorf("learning pace must be between %.1f and %.1f", profile.MinLearningPace, profile.MaxLearningPace)
	}
	return v, nil
}

// SplitList splits comma or newline separated input, dropping blanks.
func SplitList(s string) []string {
	return split(s, func(r rune) bool { return r == ',' || r == '\n' })
}

// SplitLines splits newline separated input, dropping blanks.
func SplitLines(s string) []string {
	return split(s, func(r rune) bool { return r == '\n' })
}

func split(s string, sep func(rune) bool) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
