package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/rfp/advisory"
	"github.com/tailored-agentic-units/rfp/commodity"
	"github.com/tailored-agentic-units/rfp/match"
	"github.com/tailored-agentic-units/rfp/pricing"
	"github.com/tailored-agentic-units/rfp/rfp"
	"github.com/tailored-agentic-units/rfp/risk"
)

// Stage names a workflow state. Stages double as graph node names.
type Stage string

const (
	StageIntake          Stage = "intake"
	StageQualifying      Stage = "qualifying"
	StageMatching        Stage = "matching"
	StageComplianceCheck Stage = "compliance_check"
	StageRetry           Stage = "retry"
	StagePricing         Stage = "pricing"
	StagePricingCheck    Stage = "pricing_check"
	StageAdvisory        Stage = "advisory"
	StageConsolidating   Stage = "consolidating"
	StageDecided         Stage = "decided"
	StageEscalated       Stage = "escalated"
	StageDeclined        Stage = "declined"
	StageFailed          Stage = "failed"
)

// Terminal reports whether no further transitions leave the stage.
func (s Stage) Terminal() bool {
	switch s {
	case StageDecided, StageEscalated, StageDeclined, StageFailed:
		return true
	}
	return false
}

// Outcome is the final verdict of a run.
type Outcome string

const (
	OutcomeApproved  Outcome = "Approved"
	OutcomeEscalated Outcome = "Escalated"
	OutcomeDeclined  Outcome = "Declined"
	OutcomeFailed    Outcome = "Failed"
)

// AuditEntry records one stage transition. Entries are only ever appended.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	From      Stage     `json:"from"`
	To        Stage     `json:"to"`
	Reason    string    `json:"reason"`
}

// Failure describes the component error that aborted a run.
type Failure struct {
	Kind    rfp.Kind `json:"kind"`
	Stage   Stage    `json:"stage"`
	Message string   `json:"message"`
}

// Decision is the outcome with the reasons that produced it.
type Decision struct {
	Outcome Outcome  `json:"outcome"`
	Reasons []string `json:"reasons,omitempty"`
}

// State is the aggregate for one RFP run. A State is owned by a single run
// and never shared across goroutines.
type State struct {
	ID            string             `json:"id"`
	Request       rfp.Request        `json:"request"`
	Rates         commodity.Snapshot `json:"rates"`
	Stage         Stage              `json:"stage"`
	Qualification *risk.Result       `json:"qualification,omitempty"`
	Matches       []match.Result     `json:"matches,omitempty"`
	Invocations   map[int]int        `json:"invocations,omitempty"`
	RetryCounter  int                `json:"retry_counter"`
	Tolerance     match.Tolerance    `json:"tolerance"`
	Pricing       *pricing.Result    `json:"pricing,omitempty"`
	Violations    []string           `json:"violations,omitempty"`
	Advisory      *advisory.Result   `json:"advisory,omitempty"`
	Decision      *Decision          `json:"decision,omitempty"`
	Bid           *ConsolidatedBid   `json:"bid,omitempty"`
	Audit         []AuditEntry       `json:"audit"`
	Failure       *Failure           `json:"failure,omitempty"`
	StartedAt     time.Time          `json:"started_at"`
	CompletedAt   time.Time          `json:"completed_at,omitzero"`
}

// NewState creates the state for a fresh run with a new run ID.
func NewState(req rfp.Request, rates commodity.Snapshot, now time.Time) *State {
	return &State{
		ID:          uuid.NewString(),
		Request:     req,
		Rates:       rates,
		Stage:       StageIntake,
		Invocations: make(map[int]int),
		Audit:       make([]AuditEntry, 0, 16),
		StartedAt:   now,
	}
}

// RunID identifies the run for checkpoints and events.
func (s *State) RunID() string {
	return s.ID
}

// Outcome returns the decided outcome, or empty while the run is in flight.
func (s *State) Outcome() Outcome {
	if s.Decision == nil {
		return ""
	}
	return s.Decision.Outcome
}

func (s *State) record(at time.Time, from, to Stage, reason string) {
	s.Audit = append(s.Audit, AuditEntry{
		Timestamp: at,
		From:      from,
		To:        to,
		Reason:    reason,
	})
	s.Stage = to
}

func (s *State) allQualified() bool {
	if len(s.Matches) != len(s.Request.Lines) {
		return false
	}
	for _, m := range s.Matches {
		if !m.Status.Qualified() {
			return false
		}
	}
	return true
}

func (s *State) anyNonCompliant() bool {
	for _, m := range s.Matches {
		if m.Status == match.StatusNonCompliant {
			return true
		}
	}
	return false
}
