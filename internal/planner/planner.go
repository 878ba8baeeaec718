package planner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/errors"
	"github.com/felixgeelhaar/growthplan/internal/log"
	"github.com/felixgeelhaar/growthplan/internal/metrics"
)

// Planner builds growth strategies. A Planner holds no per-invocation state
// and may be shared by concurrent invocations.
type Planner struct {
	logger  *log.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Planner) {
		p.metrics = m
	}
}

// WithClock sets the time source used for created_at and the schedule start.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// WithIDGenerator sets the strategy id generator.
func WithIDGenerator(newID func() string) Option {
	return func(p *Planner) {
		p.newID = newID
	}
}

// New creates a Planner.
func New(opts ...Option) *Planner {
	p := &Planner{
		logger: log.DefaultLogger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan builds a complete strategy. Advisory failures are absorbed by
// fallbacks, so Plan always returns a strategy.
//
// The base strategy, decomposition and schedule run in order. Milestones,
// adaptive strategies and the risk assessment only need the schedule and run
// concurrently.
func (p *Planner) Plan(ctx context.Context, s *advisory.Session, in Input) *GrowthStrategy {
	created := p.now()
	gs := &GrowthStrategy{
		EmployeeID: in.Learner.ID,
		StrategyID: p.newID(),
		CreatedAt:  created,
	}
	logger := p.logger.WithLearner(in.Learner.ID).With("strategy_id", gs.StrategyID)

	var fallbacks tagSet
	track := func(tag advisory.Tag, outcome advisory.Outcome) {
		if outcome != advisory.OutcomeParsed {
			fallbacks.add(tag)
		}
	}

	base, outcome := BaseStrategyFor(ctx, s, in)
	track(advisory.TagGrowthStrategy, outcome)
	gs.BaseStrategy = base

	candidates, outcome := Decompose(ctx, s, in, base, created)
	track(advisory.TagTaskDecomposition, outcome)

	sched := Schedule(candidates, in.Learner.LearningPace, created)
	gs.Tasks = sched.Tasks
	gs.DeadlockBreaks = sched.DeadlockBreaks
	for _, br := range sched.DeadlockBreaks {
		p.metrics.RecordError(string(errors.ErrCodePlanSchedulingDeadlock))
		logger.WithError(errors.NewSchedulingDeadlockError(br.TaskName, br.Unresolved)).
			Warn("dependency scheduler forced a task onto the timeline", "task_id", br.TaskID.String())
	}
	p.metrics.RecordSchedule(len(sched.Tasks), len(sched.DeadlockBreaks))
	logger.Debug("tasks scheduled", "tasks", len(sched.Tasks), "deadlock_breaks", len(sched.DeadlockBreaks))

	var g errgroup.Group
	g.Go(func() error {
		ms, outcome := Milestones(ctx, s, in, gs.Tasks, created)
		track(advisory.TagMilestones, outcome)
		gs.Milestones = ms
		return nil
	})
	g.Go(func() error {
		as, outcome := AdaptiveStrategies(ctx, s, in)
		track(advisory.TagAdaptiveStrategies, outcome)
		gs.AdaptiveStrategies = as
		return nil
	})
	g.Go(func() error {
		ra, outcome := AssessRisks(ctx, s, in, gs.Tasks, logger)
		track(advisory.TagRiskAssessment, outcome)
		gs.RiskAssessment = ra
		return nil
	})
	_ = g.Wait()

	gs.EstimatedCompletion = EstimatedCompletion(gs.Tasks, created)
	gs.SuccessProbability = p.successProbability(logger, in, gs.Tasks)
	gs.Fallbacks = fallbacks.sorted()

	logger.Info("growth strategy built",
		"tasks", len(gs.Tasks),
		"milestones", len(gs.Milestones),
		"success_probability", gs.SuccessProbability,
		"fallbacks", len(gs.Fallbacks))
	return gs
}

func (p *Planner) successProbability(logger *log.Logger, in Input, tasks []Task) float64 {
	prob, err := SuccessProbability(in.Learner.LearningPace, tasks, MergeRiskFactors(in.RiskFactors))
	if err != nil {
		logger.WithError(err).Warn("success probability defaulted", "default", DefaultSuccessProbability)
	}
	clamped, changed := ClampProbability(prob)
	if changed {
		p.metrics.RecordError(string(errors.ErrCodeValueClamped))
		logger.WithError(errors.NewValueClampedError("success_probability", prob, clamped)).Warn("success probability clamped")
	}
	p.metrics.RecordSuccessProbability(clamped)
	return clamped
}

// tagSet collects tags from concurrent generators.
type tagSet struct {
	mu   sync.Mutex
	tags map[advisory.Tag]bool
}

func (t *tagSet) add(tag advisory.Tag) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tags == nil {
		t.tags = make(map[advisory.Tag]bool)
	}
	t.tags[tag] = true
}

func (t *tagSet) sorted() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.tags))
	for tag := range t.tags {
		out = append(out, string(tag))
	}
	sort.Strings(out)
	return out
}
