// Package advisory wraps the external text-generation service used by every
// pipeline phase. Each call resolves to a tagged Result: Parsed, Malformed or
// Unavailable. Callers pair every call with a deterministic fallback of the
// same shape so a plan is always produced.
package advisory

import (
	"context"
	"fmt"
)

// Generator produces free text for a prompt. Implementations must be safe for
// concurrent use. Any returned error is treated as a transport failure.
type Generator interface {
	Generate(ctx context.Context, tag Tag, prompt string, maxTokens int, temperature float64) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, tag Tag, prompt string, maxTokens int, temperature float64) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, tag Tag, prompt string, maxTokens int, temperature float64) (string, error) {
	return f(ctx, tag, prompt, maxTokens, temperature)
}

// Outcome classifies how an advisory call resolved.
type Outcome int

const (
	// OutcomeParsed means the response decoded into the expected schema.
	OutcomeParsed Outcome = iota
	// OutcomeMalformed means a response arrived but did not match the schema.
	OutcomeMalformed
	// OutcomeUnavailable means no response arrived, or the session was already unavailable.
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeParsed:
		return "parsed"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Request describes one advisory call. Zero MaxTokens or Temperature take the tag defaults.
type Request struct {
	Tag         Tag
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Result is the tagged outcome of a call. Value is only meaningful when Outcome is OutcomeParsed.
// Raw holds the response text for Parsed and Malformed outcomes.
type Result[T any] struct {
	Outcome Outcome
	Value   T
	Raw     string
	Err     error
}

// OK reports whether the call produced a parsed value.
func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeParsed
}
