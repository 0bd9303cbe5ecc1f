package workflow

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/tailored-agentic-units/rfp/advisory"
	"github.com/tailored-agentic-units/rfp/commodity"
	"github.com/tailored-agentic-units/rfp/match"
	"github.com/tailored-agentic-units/rfp/pricing"
	"github.com/tailored-agentic-units/rfp/risk"
)

// ConsolidatedBid is the single value a run hands to its sinks: the outcome,
// every result computed along the way and the full audit log.
type ConsolidatedBid struct {
	RunID         string             `json:"run_id"`
	RFPID         string             `json:"rfp_id"`
	Title         string             `json:"title,omitempty"`
	Client        string             `json:"client,omitempty"`
	Outcome       Outcome            `json:"outcome"`
	Reasons       []string           `json:"reasons,omitempty"`
	Qualification *risk.Result       `json:"qualification,omitempty"`
	Matches       []match.Result     `json:"matches,omitempty"`
	Pricing       *pricing.Result    `json:"pricing,omitempty"`
	Advisory      *advisory.Result   `json:"advisory,omitempty"`
	Rates         commodity.Snapshot `json:"rates"`
	Failure       *Failure           `json:"failure,omitempty"`
	Audit         []AuditEntry       `json:"audit"`
	DecidedAt     time.Time          `json:"decided_at"`
}

// consolidate builds the bid from the current state. Slices are copied so
// the bid stays stable if the state is inspected further.
func (s *State) consolidate(at time.Time) *ConsolidatedBid {
	bid := &ConsolidatedBid{
		RunID:         s.ID,
		RFPID:         s.Request.ID,
		Title:         s.Request.Title,
		Client:        s.Request.Client,
		Outcome:       s.Outcome(),
		Qualification: s.Qualification,
		Matches:       slices.Clone(s.Matches),
		Pricing:       s.Pricing,
		Advisory:      s.Advisory,
		Rates:         s.Rates,
		Failure:       s.Failure,
		Audit:         slices.Clone(s.Audit),
		DecidedAt:     at,
	}
	if s.Decision != nil {
		bid.Reasons = slices.Clone(s.Decision.Reasons)
	}
	return bid
}

// Sink receives the consolidated bid of every finished run.
type Sink interface {
	Emit(ctx context.Context, bid *ConsolidatedBid) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, bid *ConsolidatedBid) error

func (f SinkFunc) Emit(ctx context.Context, bid *ConsolidatedBid) error {
	return f(ctx, bid)
}

// MultiSink fans a bid out to every non-nil sink and joins their errors.
func MultiSink(sinks ...Sink) Sink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return SinkFunc(func(ctx context.Context, bid *ConsolidatedBid) error {
		var errs []error
		for _, s := range filtered {
			if err := s.Emit(ctx, bid); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
