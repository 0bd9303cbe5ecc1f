package workflow

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/rfp/match"
	"github.com/tailored-agentic-units/rfp/orchestrate/state"
)

// Transition reasons recorded in the audit log.
const (
	reasonStart        = "workflow started"
	reasonQualified    = "qualified"
	reasonDisqualified = "disqualified"
	reasonMatched      = "matching complete"
	reasonCompliant    = "all lines compliant"
	reasonRetry        = "relax tolerance and retry"
	reasonRematch      = "rematch at relaxed tolerance"
	reasonNonCompliant = "technical non-compliance: SMM below threshold"
	reasonMarginal     = "marginal lines accepted after final attempt"
	reasonPriced       = "pricing complete"
	reasonWithinBounds = "pricing within bounds"
	reasonViolation    = "pricing constraint violation"
	reasonAdvised      = "advisory complete"
	reasonDecided      = "decision recorded"
)

type node = state.Node[*State]

type predicate = state.Predicate[*State]

func (o *Orchestrator) buildGraph(opts ...state.Option[*State]) (state.Graph[*State], error) {
	g, err := state.NewGraph(o.cfg.Graph, opts...)
	if err != nil {
		return nil, err
	}

	nodes := []struct {
		stage Stage
		node  node
	}{
		{StageQualifying, state.NewFunctionNode(o.qualify)},
		{StageMatching, state.NewFunctionNode(o.matchLines)},
		{StageComplianceCheck, passthrough()},
		{StageRetry, state.NewFunctionNode(o.relax)},
		{StagePricing, state.NewFunctionNode(o.price)},
		{StagePricingCheck, state.NewFunctionNode(o.checkPricing)},
		{StageAdvisory, state.NewFunctionNode(o.advise)},
		{StageConsolidating, state.NewFunctionNode(o.decide)},
		{StageDecided, state.NewFunctionNode(o.finalize)},
		{StageEscalated, state.NewFunctionNode(o.escalate)},
		{StageDeclined, state.NewFunctionNode(o.decline)},
	}
	for _, n := range nodes {
		if err := g.AddNode(string(n.stage), n.node); err != nil {
			return nil, err
		}
	}

	maxRetries := o.matcher.Schedule().MaxRetries()
	canRetry := func(s *State) bool { return s.RetryCounter < maxRetries }
	qualifies := func(s *State) bool { return s.Qualification != nil && s.Qualification.Qualifies }
	priceable := func(s *State) bool { return len(s.Violations) == 0 }

	edges := []struct {
		from, to Stage
		reason   string
		when     predicate
	}{
		{StageQualifying, StageMatching, reasonQualified, qualifies},
		{StageQualifying, StageDeclined, reasonDisqualified, nil},
		{StageMatching, StageComplianceCheck, reasonMatched, nil},
		{StageComplianceCheck, StagePricing, reasonCompliant, (*State).allQualified},
		{StageComplianceCheck, StageRetry, reasonRetry, canRetry},
		{StageComplianceCheck, StageEscalated, reasonNonCompliant, (*State).anyNonCompliant},
		{StageComplianceCheck, StagePricing, reasonMarginal, nil},
		{StageRetry, StageMatching, reasonRematch, nil},
		{StagePricing, StagePricingCheck, reasonPriced, nil},
		{StagePricingCheck, StageAdvisory, reasonWithinBounds, priceable},
		{StagePricingCheck, StageDeclined, reasonViolation, nil},
		{StageAdvisory, StageConsolidating, reasonAdvised, nil},
		{StageConsolidating, StageDecided, reasonDecided, nil},
	}
	for _, e := range edges {
		if err := g.AddEdge(string(e.from), string(e.to), e.reason, e.when); err != nil {
			return nil, err
		}
	}

	if err := g.SetEntryPoint(string(StageQualifying)); err != nil {
		return nil, err
	}
	for _, exit := range []Stage{StageDecided, StageEscalated, StageDeclined} {
		if err := g.SetExitPoint(string(exit)); err != nil {
			return nil, err
		}
	}

	return g, g.Validate()
}

// audit is the transition hook that keeps the audit log and stage in step
// with the graph.
func (o *Orchestrator) audit(s *State, t state.Transition) *State {
	from := Stage(t.From)
	if from == "" {
		from = s.Stage
	}
	reason := t.Name
	if t.Name == "start" {
		reason = reasonStart
	}
	s.record(o.now(), from, Stage(t.To), reason)
	return s
}

func passthrough() node {
	return state.NewFunctionNode(func(ctx context.Context, s *State) (*State, error) {
		return s, nil
	})
}

func (o *Orchestrator) qualify(ctx context.Context, s *State) (*State, error) {
	result, err := o.scorer.Score(s.Request)
	if err != nil {
		return s, err
	}
	s.Qualification = &result
	return s, nil
}

// matchLines invokes the matcher once per line at the current retry level
// and keeps the best result seen across attempts.
func (o *Orchestrator) matchLines(ctx context.Context, s *State) (*State, error) {
	if s.Matches == nil {
		s.Matches = make([]match.Result, len(s.Request.Lines))
	}
	if s.Invocations == nil {
		s.Invocations = make(map[int]int)
	}

	for i, line := range s.Request.Lines {
		s.Invocations[line.Line]++
		result, err := o.matcher.Match(ctx, line, s.RetryCounter)
		if err != nil {
			return s, err
		}
		s.Matches[i] = match.Better(s.Matches[i], result)
	}
	return s, nil
}

func (o *Orchestrator) relax(ctx context.Context, s *State) (*State, error) {
	s.RetryCounter++
	s.Tolerance = o.matcher.Schedule().At(s.RetryCounter)
	return s, nil
}

func (o *Orchestrator) price(ctx context.Context, s *State) (*State, error) {
	priced, err := o.pricer.Price(s.Request, s.Matches, s.Rates)
	if err != nil {
		return s, err
	}
	s.Pricing = priced
	return s, nil
}

func (o *Orchestrator) checkPricing(ctx context.Context, s *State) (*State, error) {
	s.Violations = s.Pricing.Violations(o.pricer.Config())
	return s, nil
}

func (o *Orchestrator) advise(ctx context.Context, s *State) (*State, error) {
	result, err := o.advisor.Analyze(s.Pricing, s.Request)
	if err != nil {
		return s, err
	}
	s.Advisory = result
	return s, nil
}

// decide approves only fully qualified bids within the auto-approval risk
// ceiling. Everything else goes to board review.
func (o *Orchestrator) decide(ctx context.Context, s *State) (*State, error) {
	var reasons []string

	for _, m := range s.Matches {
		if !m.Status.Qualified() {
			reasons = append(reasons, fmt.Sprintf("line %d: %s match (SMM %.1f) requires board review", m.Line, m.Status, m.Score))
		}
	}

	if q := s.Qualification; q != nil && q.Score > o.cfg.AutoApproveRisk {
		reasons = append(reasons, fmt.Sprintf("risk score %.1f exceeds auto-approval ceiling %.1f", q.Score, o.cfg.AutoApproveRisk))
	}

	if len(reasons) == 0 {
		s.Decision = &Decision{Outcome: OutcomeApproved}
		return s, nil
	}
	s.Decision = &Decision{Outcome: OutcomeEscalated, Reasons: reasons}
	return s, nil
}

func (o *Orchestrator) finalize(ctx context.Context, s *State) (*State, error) {
	s.Bid = s.consolidate(o.now())
	return s, nil
}

func (o *Orchestrator) escalate(ctx context.Context, s *State) (*State, error) {
	reasons := []string{reasonNonCompliant}
	for _, m := range s.Matches {
		if m.Status == match.StatusNonCompliant {
			reasons = append(reasons, fmt.Sprintf("line %d: best SMM %.1f after %d attempts", m.Line, m.Score, s.RetryCounter+1))
		}
	}
	s.Decision = &Decision{Outcome: OutcomeEscalated, Reasons: reasons}
	return o.finalize(ctx, s)
}

func (o *Orchestrator) decline(ctx context.Context, s *State) (*State, error) {
	var reasons []string

	switch {
	case len(s.Violations) > 0:
		reasons = append([]string{reasonViolation}, s.Violations...)
	case s.Qualification != nil:
		q := s.Qualification
		reasons = []string{
			reasonDisqualified,
			fmt.Sprintf("risk score %.1f (%s), due in %d days", q.Score, q.Level, q.DaysToDue),
		}
	default:
		reasons = []string{reasonDisqualified}
	}

	s.Decision = &Decision{Outcome: OutcomeDeclined, Reasons: reasons}
	return o.finalize(ctx, s)
}
