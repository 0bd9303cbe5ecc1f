// Package risk scores the commercial risk of an incoming RFP and decides
// whether it qualifies for a bid.
package risk

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tailored-agentic-units/rfp/rfp"
)

// Priority is the bid-desk priority tier assigned to a request.
type Priority string

const (
	PriorityHigh      Priority = "High"
	PriorityImmediate Priority = "Immediate"
	PriorityStrategic Priority = "Strategic"
)

// Level is the coarse risk band used in reports.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Result is the qualification outcome for a request.
type Result struct {
	Score     float64  `json:"score"`
	Level     Level    `json:"level"`
	Priority  Priority `json:"priority"`
	Qualifies bool     `json:"qualifies"`
	DaysToDue int      `json:"days_to_due"`
	Factors   []string `json:"factors,omitempty"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Scorer computes qualification results. The clock is injectable so scores
// are reproducible in tests and audits.
type Scorer struct {
	cfg Config
	now func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithClock overrides time.Now as the reference point for days-to-due.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

// NewScorer creates a Scorer from configuration.
func NewScorer(cfg Config, opts ...Option) *Scorer {
	s := &Scorer{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the risk score, priority tier and qualification verdict for
// req. It fails with rfp.ErrInvalidInput when the due date is missing or
// cannot be parsed.
func (s *Scorer) Score(req rfp.Request) (Result, error) {
	due, err := ParseDueDate(req.DueDate)
	if err != nil {
		return Result{}, err
	}

	days := DaysUntil(s.now(), due)
	var factors []string

	score := s.urgency(days)
	if score > 0 {
		factors = append(factors, fmt.Sprintf("deadline in %d days (+%g)", days, score))
	}

	if req.BidBond.Required {
		score += s.cfg.BidBondPenalty
		factors = append(factors, fmt.Sprintf("bid bond required (+%g)", s.cfg.BidBondPenalty))
	}

	if req.LiquidatedDamages {
		score += s.cfg.LiquidatedDamagesPenalty
		factors = append(factors, fmt.Sprintf("liquidated damages clause (+%g)", s.cfg.LiquidatedDamagesPenalty))
	}

	if pct := req.PerformanceBondPercent; s.cfg.PerformanceBondThreshold > 0 && pct >= s.cfg.PerformanceBondThreshold {
		penalty := s.cfg.PerformanceBondPenalty * pct / s.cfg.PerformanceBondThreshold
		score += penalty
		factors = append(factors, fmt.Sprintf("performance bond %g%% (+%g)", pct, penalty))
	}

	score = math.Max(1, math.Min(10, score))

	return Result{
		Score:     score,
		Level:     s.level(score),
		Priority:  s.priority(days, score),
		Qualifies: days >= 0 && days <= s.cfg.WindowDays && score <= s.cfg.Ceiling,
		DaysToDue: days,
		Factors:   factors,
	}, nil
}

func (s *Scorer) urgency(days int) float64 {
	switch {
	case days < s.cfg.UrgentDays:
		return s.cfg.UrgentPoints
	case days < s.cfg.ModerateDays:
		return s.cfg.ModeratePoints
	default:
		return 0
	}
}

func (s *Scorer) priority(days int, score float64) Priority {
	switch {
	case days > s.cfg.WindowDays || score < s.cfg.LowRiskCutoff:
		return PriorityStrategic
	case days < s.cfg.UrgentDays:
		return PriorityHigh
	default:
		return PriorityImmediate
	}
}

func (s *Scorer) level(score float64) Level {
	switch {
	case score <= 2:
		return LevelLow
	case score <= 5:
		return LevelMedium
	case score <= 7:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// ParseDueDate accepts RFC 3339 timestamps and plain calendar dates.
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: due date is missing", rfp.ErrInvalidInput)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unparseable due date %q", rfp.ErrInvalidInput, raw)
}

// DaysUntil returns whole days from now until due, rounding toward negative
// infinity so an overdue request reports a negative count.
func DaysUntil(now, due time.Time) int {
	return int(math.Floor(due.Sub(now).Hours() / 24))
}
