// Package advisorytest provides scripted advisory generators for tests.
package advisorytest

import (
	"context"
	"errors"
	"sync"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
)

// ErrDown is returned by Down and by unscripted tags of a strict Scripted generator.
var ErrDown = errors.New("advisory service down")

// Call records one generator invocation.
type Call struct {
	Tag         advisory.Tag
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Scripted answers each tag with a canned response. Unscripted tags return
// Default, or ErrDown when Default is empty.
type Scripted struct {
	Responses map[advisory.Tag]string
	Errors    map[advisory.Tag]error
	Default   string

	mu    sync.Mutex
	calls []Call
}

// New returns a Scripted generator with the given responses.
func New(responses map[advisory.Tag]string) *Scripted {
	return &Scripted{Responses: responses, Errors: map[advisory.Tag]error{}}
}

// Generate implements advisory.Generator.
func (s *Scripted) Generate(ctx context.Context, tag advisory.Tag, prompt string, maxTokens int, temperature float64) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Tag: tag, Prompt: prompt, MaxTokens: maxTokens, Temperature: temperature})
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := s.Errors[tag]; ok {
		return "", err
	}
	if resp, ok := s.Responses[tag]; ok {
		return resp, nil
	}
	if s.Default != "" {
		return s.Default, nil
	}
	return "", ErrDown
}

// Calls returns a copy of the recorded calls in arrival order.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsFor returns the recorded calls for one tag.
func (s *Scripted) CallsFor(tag advisory.Tag) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Down is a generator whose every call fails.
var Down = advisory.GeneratorFunc(func(context.Context, advisory.Tag, string, int, float64) (string, error) {
	return "", ErrDown
})
