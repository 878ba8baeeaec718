package domain

import (
	"fmt"
	"strings"
)

// Complexity is the difficulty of a learning task.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// DefaultComplexity is used when advisory output carries an unknown value.
const DefaultComplexity = ComplexityModerate

// ParseComplexity parses a complexity strictly, ignoring case and surrounding space.
func ParseComplexity(value string) (Complexity, error) {
	c := Complexity(strings.ToLower(strings.TrimSpace(value)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// NormalizeComplexity maps any input to a valid complexity, defaulting to moderate.
func NormalizeComplexity(value string) Complexity {
	c, err := ParseComplexity(value)
	if err != nil {
		return DefaultComplexity
	}
	return c
}

// Validate checks if the complexity is valid
func (c Complexity) Validate() error {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex:
		return nil
	default:
		return fmt.Errorf("invalid complexity %q: must be simple, moderate, or complex", string(c))
	}
}

// String returns the string representation
func (c Complexity) String() string {
	return string(c)
}
