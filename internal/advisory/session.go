package advisory

import (
	"sort"
	"sync"

	"github.com/felixgeelhaar/growthplan/internal/errors"
	"github.com/felixgeelhaar/growthplan/internal/log"
	"github.com/felixgeelhaar/growthplan/internal/metrics"
)

// Session scopes advisory calls to one planning invocation. After the first
// transport failure every later call short-circuits to OutcomeUnavailable
// without reaching the generator. A Session is safe for concurrent use.
type Session struct {
	gen       Generator
	overrides map[Tag]Params
	logger    *log.Logger
	metrics   *metrics.Metrics

	mu          sync.Mutex
	unavailable bool
	cause       error
	fallbacks   map[Tag]int
	outcomes    map[Outcome]int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithOverrides replaces the default parameters of selected tags.
func WithOverrides(overrides map[Tag]Params) SessionOption {
	return func(s *Session) {
		s.overrides = overrides
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// NewSession starts a session. A nil generator yields a session that is unavailable from the start.
func NewSession(gen Generator, opts ...SessionOption) *Session {
	s := &Session{
		gen:       gen,
		logger:    log.DefaultLogger(),
		fallbacks: make(map[Tag]int),
		outcomes:  make(map[Outcome]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if gen == nil {
		s.unavailable = true
		s.cause = errors.New(errors.ErrCodeAdvisoryUnavailable, "no advisory generator configured")
	}
	return s
}

// Available reports whether calls will still reach the generator.
func (s *Session) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.unavailable
}

// Cause returns the error that made the session unavailable, if any.
func (s *Session) Cause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// Fallbacks returns the tags resolved with defaults so far, sorted.
func (s *Session) Fallbacks() []Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make([]Tag, 0, len(s.fallbacks))
	for t := range s.fallbacks {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Outcomes returns how many calls ended in each outcome.
func (s *Session) Outcomes() map[Outcome]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Outcome]int, len(s.outcomes))
	for k, v := range s.outcomes {
		out[k] = v
	}
	return out
}

// params resolves generation parameters: config overrides, then request values, then tag defaults.
func (s *Session) params(req Request) Params {
	p := DefaultParams[req.Tag]
	if req.MaxTokens > 0 {
		p.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		p.Temperature = req.Temperature
	}
	if o, ok := s.overrides[req.Tag]; ok {
		if o.MaxTokens > 0 {
			p.MaxTokens = o.MaxTokens
		}
		if o.Temperature > 0 {
			p.Temperature = o.Temperature
		}
	}
	return p
}

// acquire returns the generator, or nil once the session is unavailable.
func (s *Session) acquire() Generator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable {
		return nil
	}
	return s.gen
}

func (s *Session) markUnavailable(tag Tag, err error) {
	s.mu.Lock()
	first := !s.unavailable
	if first {
		s.unavailable = true
		s.cause = err
	}
	s.mu.Unlock()

	if first {
		s.logger.WithError(err).Warn("advisory subsystem unavailable for the rest of this invocation", "tag", string(tag))
	}
}

func (s *Session) record(tag Tag, outcome Outcome) {
	s.mu.Lock()
	s.outcomes[outcome]++
	s.mu.Unlock()
}

func (s *Session) recordFallback(tag Tag) {
	s.mu.Lock()
	s.fallbacks[tag]++
	s.mu.Unlock()
	s.metrics.RecordFallback(string(tag))
}
