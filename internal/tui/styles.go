// Package tui holds the terminal presentation layer: lipgloss styles, the
// text rendering of a growth plan report, and huh prompts.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains lipgloss styles for report output
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Section  lipgloss.Style
	Label    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Bullet   lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Section: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Label: lipgloss.NewStyle().
			Bold(true),
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")), // Yellow
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")). // Purple
			Padding(0, 1),
		Bullet: lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")),
	}
}

// PlainStyles renders without colors or borders. Used for piped output and tests.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:    plain,
		Subtitle: plain,
		Section:  plain,
		Label:    plain,
		Success:  plain,
		Warning:  plain,
		Error:    plain,
		Muted:    plain,
		Border:   plain,
		Bullet:   plain,
	}
}
