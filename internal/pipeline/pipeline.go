// Package pipeline runs the growth planning phases for one learner:
// understanding, knowledge aggregation, diagnostics, planning, support and
// synthesis. Every advisory failure is absorbed by a deterministic fallback,
// so an invocation that is not cancelled always yields a complete report.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/errors"
	"github.com/felixgeelhaar/growthplan/internal/history"
	"github.com/felixgeelhaar/growthplan/internal/log"
	"github.com/felixgeelhaar/growthplan/internal/metrics"
	"github.com/felixgeelhaar/growthplan/internal/planner"
	"github.com/felixgeelhaar/growthplan/internal/profile"
	"github.com/felixgeelhaar/growthplan/internal/search"
	"github.com/felixgeelhaar/growthplan/internal/telemetry"
)

// Phase names.
const (
	PhaseUnderstanding = "understanding"
	PhaseKnowledge     = "knowledge"
	PhaseDiagnostic    = "diagnostic"
	PhasePlanning      = "planning"
	PhaseSupport       = "support"
	PhaseSynthesis     = "synthesis"
)

// Phases lists the phases in execution order.
var Phases = []string{PhaseUnderstanding, PhaseKnowledge, PhaseDiagnostic, PhasePlanning, PhaseSupport, PhaseSynthesis}

// Settings tune the fan-out phases.
type Settings struct {
	MaxQueriesPerCategory int
	MaxResults            int
	SearchConcurrency     int
	AdvisoryConcurrency   int
	Overrides             map[advisory.Tag]advisory.Params
}

// DefaultSettings returns the default phase settings.
func DefaultSettings() Settings {
	return Settings{
		MaxQueriesPerCategory: 3,
		MaxResults:            5,
		SearchConcurrency:     4,
		AdvisoryConcurrency:   4,
	}
}

// Pipeline orchestrates the phases. A Pipeline holds no per-invocation state;
// concurrent Run calls share only the history sink.
type Pipeline struct {
	gen      advisory.Generator
	searcher search.Provider
	planner  *planner.Planner
	history  history.Sink
	logger   *log.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string
	settings Settings
	observer Observer
}

// Observer is notified as each phase starts and finishes. Calls for one
// invocation come from the goroutine that called Run.
type Observer interface {
	PhaseStarted(phase string)
	PhaseFinished(phase string, elapsed time.Duration)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithHistory sets where completed invocations are recorded.
func WithHistory(sink history.Sink) Option {
	return func(p *Pipeline) {
		p.history = sink
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithIDGenerator sets the generator of invocation, strategy and history ids.
func WithIDGenerator(newID func() string) Option {
	return func(p *Pipeline) {
		p.newID = newID
	}
}

// WithObserver sets the phase observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// WithSettings replaces the phase settings. Zero fields keep their defaults.
func WithSettings(s Settings) Option {
	return func(p *Pipeline) {
		d := DefaultSettings()
		if s.MaxQueriesPerCategory <= 0 {
			s.MaxQueriesPerCategory = d.MaxQueriesPerCategory
		}
		if s.MaxResults <= 0 {
			s.MaxResults = d.MaxResults
		}
		if s.SearchConcurrency <= 0 {
			s.SearchConcurrency = d.SearchConcurrency
		}
		if s.AdvisoryConcurrency <= 0 {
			s.AdvisoryConcurrency = d.AdvisoryConcurrency
		}
		p.settings = s
	}
}

// New creates a Pipeline. A nil generator runs every phase on fallbacks; a
// nil search provider returns no documents.
func New(gen advisory.Generator, searcher search.Provider, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:      gen,
		searcher: searcher,
		history:  history.NewMemory(),
		logger:   log.DefaultLogger(),
		now:      time.Now,
		newID:    uuid.NewString,
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.searcher == nil {
		p.searcher = search.NoopProvider{}
	}
	p.planner = planner.New(
		planner.WithLogger(p.logger),
		planner.WithMetrics(p.metrics),
		planner.WithClock(p.now),
		planner.WithIDGenerator(p.newID),
	)
	return p
}

// Run executes every phase for one learner. It fails only for an invalid
// profile or a cancelled context.
func (p *Pipeline) Run(ctx context.Context, prof *profile.Profile) (*Report, error) {
	started := time.Now()
	if prof == nil {
		return nil, errors.NewProfileInvalidError("profile is required")
	}
	learner := *prof
	learner.ApplyDefaults()
	if err := learner.Validate(); err != nil {
		p.metrics.RecordError(string(errors.ErrCodeProfileInvalid))
		return nil, errors.NewProfileInvalidError(err.Error())
	}

	logger := p.logger.WithLearner(learner.ID)
	s := advisory.NewSession(p.gen,
		advisory.WithLogger(logger),
		advisory.WithMetrics(p.metrics),
		advisory.WithOverrides(p.settings.Overrides),
	)

	r := &Report{
		InvocationID: p.newID(),
		LearnerID:    learner.ID,
		GeneratedAt:  p.now(),
	}
	r.Context = BuildContext(&learner, r.GeneratedAt)

	steps := []struct {
		phase string
		run   func(context.Context)
	}{
		{PhaseUnderstanding, func(ctx context.Context) {
			r.Understanding = p.understand(ctx, s, r.Context)
		}},
		{PhaseKnowledge, func(ctx context.Context) {
			r.Knowledge = p.aggregateKnowledge(ctx, s, r.Context, r.Understanding)
		}},
		{PhaseDiagnostic, func(ctx context.Context) {
			r.Diagnostic = p.diagnose(ctx, s, r.Context, r.Understanding, r.Knowledge)
		}},
		{PhasePlanning, func(ctx context.Context) {
			r.Plan = p.planner.Plan(ctx, s, p.plannerInput(r))
		}},
		{PhaseSupport, func(ctx context.Context) {
			r.Support = p.support(ctx, s, r.Context, r.Understanding, r.Plan)
		}},
		{PhaseSynthesis, func(ctx context.Context) {
			r.Synthesis = p.synthesize(ctx, s, r.phases())
		}},
	}

	for _, step := range steps {
		if err := p.runPhase(ctx, logger, step.phase, learner.ID, step.run); err != nil {
			logger.Warn("invocation cancelled", "phase", step.phase, "error", err.Error())
			p.metrics.RecordPipelineRun(false, time.Since(started))
			return nil, err
		}
	}

	r.Fallbacks = tagNames(s.Fallbacks())
	r.AdvisoryAvailable = s.Available()

	p.record(ctx, logger, &learner, r)
	p.metrics.RecordPipelineRun(true, time.Since(started))
	logger.Info("growth plan complete",
		"strategy_id", r.Plan.StrategyID,
		"tasks", len(r.Plan.Tasks),
		"success_probability", r.Plan.SuccessProbability,
		"fallbacks", len(r.Fallbacks))
	return r, nil
}

// runPhase checks for cancellation, then runs one phase inside its span.
func (p *Pipeline) runPhase(ctx context.Context, logger *log.Logger, phase, learnerID string, run func(context.Context)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, span := telemetry.StartPhaseSpan(ctx, phase, learnerID)
	defer span.End()

	if p.observer != nil {
		p.observer.PhaseStarted(phase)
	}
	started := time.Now()
	run(ctx)
	elapsed := time.Since(started)
	if p.observer != nil {
		p.observer.PhaseFinished(phase, elapsed)
	}

	p.metrics.RecordPhase(phase, elapsed)
	telemetry.RecordSuccess(span)
	logger.WithPhase(phase).Debug("phase finished", "duration", elapsed)
	return nil
}

func (p *Pipeline) plannerInput(r *Report) planner.Input {
	return planner.Input{
		Learner: r.Context.plannerLearner(),
		Analysis: map[string]any{
			"understanding": r.Understanding,
			"knowledge": map[string]any{
				"integrated_insights":        r.Knowledge.IntegratedInsights,
				"actionable_recommendations": r.Knowledge.ActionableRecommendations,
				"relevant_resources":         r.Knowledge.RelevantResources,
			},
			"diagnostic": r.Diagnostic,
		},
		RiskFactors: planner.MergeRiskFactors(r.Context.RiskSignals, r.Understanding.RiskFactors, r.Diagnostic.RiskFactors),
	}
}

// record appends the invocation to the history sink. Failures are logged only.
func (p *Pipeline) record(ctx context.Context, logger *log.Logger, learner *profile.Profile, r *Report) {
	if p.history == nil {
		return
	}
	err := p.appendHistory(context.WithoutCancel(ctx), learner, r)
	p.metrics.RecordHistory(err == nil)
	if err != nil {
		logger.WithError(err).Warn("failed to record history entry")
		p.metrics.RecordError(string(errors.CodeOf(err)))
	}
}

func (p *Pipeline) appendHistory(ctx context.Context, learner *profile.Profile, r *Report) error {
	fingerprint, err := history.Fingerprint(learner)
	if err != nil {
		return err
	}
	report, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to encode report", err)
	}
	return p.history.Record(ctx, history.Entry{
		ID:               p.newID(),
		LearnerID:        r.LearnerID,
		Timestamp:        r.GeneratedAt,
		InputFingerprint: fingerprint,
		Fallbacks:        r.Fallbacks,
		Report:           report,
	})
}

func tagNames(tags []advisory.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}
