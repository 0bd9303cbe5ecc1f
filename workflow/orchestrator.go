// Package workflow runs an RFP through qualification, matching, pricing and
// advisory as a bounded state machine and produces a ConsolidatedBid.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/rfp/commodity"
	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/orchestrate/state"
	"github.com/tailored-agentic-units/rfp/rfp"
	"github.com/tailored-agentic-units/rfp/risk"
)

// Orchestrator owns the workflow graph and its components. It holds no
// per-run state, so one Orchestrator serves concurrent runs.
type Orchestrator struct {
	cfg      Config
	scorer   Qualifier
	matcher  LineMatcher
	pricer   Pricer
	advisor  Advisor
	rates    commodity.Source
	observer observability.Observer
	sink     Sink
	store    state.CheckpointStore
	now      func() time.Time
	graph    state.Graph[*State]
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver overrides the observer named in Config.Graph.
func WithObserver(observer observability.Observer) Option {
	return func(o *Orchestrator) { o.observer = observer }
}

// WithSink sets the receiver of consolidated bids.
func WithSink(sink Sink) Option {
	return func(o *Orchestrator) { o.sink = sink }
}

// WithCheckpointStore enables checkpointing after every node into store.
func WithCheckpointStore(store state.CheckpointStore) Option {
	return func(o *Orchestrator) { o.store = store }
}

// WithClock sets the time source for run and audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator wires the components into the workflow graph.
func NewOrchestrator(cfg Config, scorer Qualifier, matcher LineMatcher, pricer Pricer, advisor Advisor, rates commodity.Source, opts ...Option) (*Orchestrator, error) {
	if scorer == nil || matcher == nil || pricer == nil || advisor == nil || rates == nil {
		return nil, fmt.Errorf("workflow: all components are required")
	}

	o := &Orchestrator{
		cfg:     cfg,
		scorer:  scorer,
		matcher: matcher,
		pricer:  pricer,
		advisor: advisor,
		rates:   rates,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.observer == nil {
		observer, err := observability.GetObserver(cfg.Graph.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		o.observer = observer
	}

	// Each attempt walks matching, compliance_check and retry once.
	attempts := len(matcher.Schedule())
	o.cfg.Graph.MaxIterations = max(o.cfg.Graph.MaxIterations, 3*attempts+8)

	graphOpts := []state.Option[*State]{
		state.WithObserver[*State](o.observer),
		state.WithTransitionHook(o.audit),
	}
	if o.store != nil {
		if o.cfg.Graph.Checkpoint.Interval <= 0 {
			o.cfg.Graph.Checkpoint.Interval = 1
		}
		graphOpts = append(graphOpts, state.WithCheckpointStore[*State](o.store))
	}

	graph, err := o.buildGraph(graphOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow graph: %w", err)
	}
	o.graph = graph

	return o, nil
}

// Run evaluates one request. Component errors do not surface as errors: they
// end the run in the Failed outcome with the error kind and stage recorded
// and partial results retained. The returned error reports infrastructure
// problems only, such as a sink that rejected the bid.
func (o *Orchestrator) Run(ctx context.Context, req rfp.Request) (*State, error) {
	s := NewState(req.Normalized(), o.rates.Snapshot(), o.now())

	o.emit(ctx, EventWorkflowStart, observability.LevelInfo, map[string]any{
		"run_id": s.ID,
		"rfp_id": s.Request.ID,
		"lines":  len(s.Request.Lines),
	})

	if err := intake(&s.Request); err != nil {
		o.fail(s, StageIntake, err)
		return o.finish(ctx, s)
	}

	final, err := o.graph.Execute(ctx, s)
	if err != nil {
		return o.settle(ctx, final, err)
	}
	return o.finish(ctx, final)
}

// Resume continues a checkpointed run.
func (o *Orchestrator) Resume(ctx context.Context, runID string) (*State, error) {
	o.emit(ctx, EventWorkflowResume, observability.LevelInfo, map[string]any{
		"run_id": runID,
	})

	final, err := o.graph.Resume(ctx, runID)
	if err != nil {
		if final == nil {
			return nil, err
		}
		return o.settle(ctx, final, err)
	}
	return o.finish(ctx, final)
}

func intake(req *rfp.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	_, err := risk.ParseDueDate(req.DueDate)
	return err
}

// settle converts a node failure into the Failed terminal state. Errors
// that did not come from a node are returned unchanged.
func (o *Orchestrator) settle(ctx context.Context, s *State, err error) (*State, error) {
	var execErr *state.ExecutionError
	if !errors.As(err, &execErr) {
		return s, err
	}

	cause := errors.Unwrap(execErr.Err)
	if cause == nil {
		cause = execErr.Err
	}
	o.fail(s, Stage(execErr.NodeName), cause)
	return o.finish(ctx, s)
}

func (o *Orchestrator) fail(s *State, stage Stage, err error) {
	s.Failure = &Failure{
		Kind:    rfp.KindOf(err),
		Stage:   stage,
		Message: err.Error(),
	}
	s.Decision = &Decision{
		Outcome: OutcomeFailed,
		Reasons: []string{fmt.Sprintf("%s at %s", s.Failure.Kind, stage)},
	}
	s.record(o.now(), stage, StageFailed, fmt.Sprintf("component error: %s", s.Failure.Kind))
	s.Bid = s.consolidate(o.now())
}

func (o *Orchestrator) finish(ctx context.Context, s *State) (*State, error) {
	s.CompletedAt = o.now()

	data := map[string]any{
		observability.KeyRunID:      s.ID,
		"rfp_id":                    s.Request.ID,
		observability.KeyOutcome:    string(s.Outcome()),
		"stage":                     string(s.Stage),
		"retries":                   s.RetryCounter,
		observability.KeyDurationMS: s.CompletedAt.Sub(s.StartedAt).Milliseconds(),
	}
	if s.Failure != nil {
		data["kind"] = string(s.Failure.Kind)
		data["failed_stage"] = string(s.Failure.Stage)
		o.emit(ctx, EventWorkflowFailed, observability.LevelWarning, data)
	} else {
		o.emit(ctx, EventWorkflowComplete, observability.LevelInfo, data)
	}

	if o.sink == nil || s.Bid == nil {
		return s, nil
	}

	if err := o.sink.Emit(ctx, s.Bid); err != nil {
		o.emit(ctx, EventSinkFailed, observability.LevelError, map[string]any{
			"run_id": s.ID,
			"error":  err.Error(),
		})
		return s, fmt.Errorf("emit bid %s: %w", s.ID, err)
	}
	return s, nil
}

func (o *Orchestrator) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	o.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    o.cfg.Graph.Name,
		Data:      data,
	})
}
