// Package advisory derives decision-support figures from a priced bid:
// processing ROI, commodity price sensitivity and competitive timing.
package advisory

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/tailored-agentic-units/rfp/pricing"
	"github.com/tailored-agentic-units/rfp/rfp"
)

// ROI compares manual and automated RFP processing cost.
type ROI struct {
	ManualCost     float64 `json:"manual_cost"`
	AutomatedCost  float64 `json:"automated_cost"`
	Savings        float64 `json:"savings"`
	SavingsPercent float64 `json:"savings_percent"`
}

// Scenario is the bid re-priced under one commodity price shift. Delta is
// the change in grand total; MarginDelta is the change in realised margin if
// the bid were held at the baseline price.
type Scenario struct {
	ShiftPercent float64         `json:"shift_percent"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Delta        decimal.Decimal `json:"delta"`
	MarginDelta  decimal.Decimal `json:"margin_delta"`
}

// Competitive estimates the timing advantage of automated processing.
type Competitive struct {
	TimeSavedHours     float64 `json:"time_saved_hours"`
	DaysSaved          float64 `json:"days_saved"`
	WinProbabilityGain float64 `json:"win_probability_gain"`
}

// Result is the advisory bundle attached to a bid.
type Result struct {
	RFPID       string          `json:"rfp_id"`
	Baseline    decimal.Decimal `json:"baseline"`
	ROI         ROI             `json:"roi"`
	Sensitivity []Scenario      `json:"sensitivity"`
	Competitive Competitive     `json:"competitive"`
}

// Analyzer computes advisory results.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an Analyzer from configuration.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze derives the advisory result for a priced bid. It never modifies
// priced; sensitivity scenarios are computed on shadow copies.
func (a *Analyzer) Analyze(priced *pricing.Result, req rfp.Request) (*Result, error) {
	if priced == nil {
		return nil, fmt.Errorf("%w: advisory requires a pricing result", rfp.ErrPreconditionFailed)
	}

	return &Result{
		RFPID:       req.ID,
		Baseline:    priced.GrandTotal,
		ROI:         a.roi(),
		Sensitivity: a.sensitivity(priced),
		Competitive: a.competitive(),
	}, nil
}

func (a *Analyzer) roi() ROI {
	manual := a.cfg.ManualHours * a.cfg.HourlyRate
	automated := a.cfg.AutomatedMinutes / 60 * a.cfg.HourlyRate

	r := ROI{
		ManualCost:    manual,
		AutomatedCost: automated,
		Savings:       manual - automated,
	}
	if manual > 0 {
		r.SavingsPercent = math.Round(r.Savings/manual*10000) / 100
	}
	return r
}

func (a *Analyzer) sensitivity(priced *pricing.Result) []Scenario {
	scenarios := make([]Scenario, 0, len(a.cfg.Shifts))
	for _, shift := range a.cfg.Shifts {
		shadow := priced.Shadow(decimal.NewFromFloat(shift))
		scenarios = append(scenarios, Scenario{
			ShiftPercent: shift,
			GrandTotal:   shadow.GrandTotal,
			Delta:        shadow.GrandTotal.Sub(priced.GrandTotal),
			MarginDelta:  priced.CostBasis.Sub(shadow.CostBasis),
		})
	}
	return scenarios
}

func (a *Analyzer) competitive() Competitive {
	saved := a.cfg.ManualHours - a.cfg.AutomatedMinutes/60
	days := saved / 24
	return Competitive{
		TimeSavedHours:     saved,
		DaysSaved:          days,
		WinProbabilityGain: math.Min(days*a.cfg.WinIncrementPerDay, a.cfg.WinIncrementCap),
	}
}
