package domain

import (
	"fmt"
	"strings"
)

// Level grades risk probability, impact, and overall risk.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// ParseLevel parses a level strictly, ignoring case and surrounding space.
func ParseLevel(value string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(value)))
	if err := l.Validate(); err != nil {
		return "", err
	}
	return l, nil
}

// NormalizeLevel maps any input to a valid level, defaulting to medium.
func NormalizeLevel(value string) Level {
	l, err := ParseLevel(value)
	if err != nil {
		return LevelMedium
	}
	return l
}

// LevelForScore grades a 1-10 risk score: 7 and above is high, 4 and above medium.
func LevelForScore(score int) Level {
	switch {
	case score >= 7:
		return LevelHigh
	case score >= 4:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Validate checks if the level is valid
func (l Level) Validate() error {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return nil
	default:
		return fmt.Errorf("invalid level %q: must be low, medium, or high", string(l))
	}
}

// String returns the string representation
func (l Level) String() string {
	return string(l)
}
