// Package pricing computes commodity-indexed bid prices for matched cable
// line items. Monetary values are decimal to keep totals exact and
// reproducible across re-computation.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tailored-agentic-units/rfp/commodity"
	"github.com/tailored-agentic-units/rfp/match"
	"github.com/tailored-agentic-units/rfp/rfp"
)

var thousand = decimal.NewFromInt(1000)

// TestCosts resolves the fixed price of a named acceptance test.
type TestCosts interface {
	CostOf(name string) (float64, error)
}

// Line is the cost breakdown for one priced line item. Per-unit figures are
// per metre.
type Line struct {
	Line               int             `json:"line"`
	SKU                string          `json:"sku"`
	Material           string          `json:"material"`
	Quantity           decimal.Decimal `json:"quantity"`
	BasePrice          decimal.Decimal `json:"base_price"`
	MetalWeightKgPerKm decimal.Decimal `json:"metal_weight_kg_per_km"`
	CommodityRate      decimal.Decimal `json:"commodity_rate"`
	MetalCost          decimal.Decimal `json:"metal_cost"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	MaterialCost       decimal.Decimal `json:"material_cost"`
	ServiceCost        decimal.Decimal `json:"service_cost"`
	Tests              []string        `json:"tests,omitempty"`
	Subtotal           decimal.Decimal `json:"subtotal"`
}

// Result is the priced bid. RiskPremium is applied once to the grand total
// and never distributed across lines.
type Result struct {
	Lines               []Line          `json:"lines"`
	Currency            string          `json:"currency"`
	ExchangeRate        decimal.Decimal `json:"exchange_rate"`
	TargetMargin        decimal.Decimal `json:"target_margin"`
	CostBasis           decimal.Decimal `json:"cost_basis"`
	MarginAdjustedTotal decimal.Decimal `json:"margin_adjusted_total"`
	Margin              decimal.Decimal `json:"margin"`
	RiskPremium         decimal.Decimal `json:"risk_premium"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
}

// Engine prices matched line items.
type Engine struct {
	cfg   Config
	tests TestCosts
}

// NewEngine creates an Engine from configuration and a test-cost lookup.
func NewEngine(cfg Config, tests TestCosts) *Engine {
	return &Engine{cfg: cfg, tests: tests}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// PriceLine prices item against its matched candidate using rates.
func (e *Engine) PriceLine(item rfp.LineItem, candidate rfp.CandidateSKU, tests []string, rates commodity.Snapshot) (Line, error) {
	if item.Quantity <= 0 {
		return Line{}, fmt.Errorf("%w: line %d quantity %g", rfp.ErrNonPositiveQuantity, item.Line, item.Quantity)
	}

	rate, err := rates.Rate(candidate.Material)
	if err != nil {
		return Line{}, fmt.Errorf("line %d: %w", item.Line, err)
	}

	service := decimal.Zero
	for _, name := range tests {
		cost, err := e.tests.CostOf(name)
		if err != nil {
			return Line{}, fmt.Errorf("line %d: %w", item.Line, err)
		}
		service = service.Add(decimal.NewFromFloat(cost))
	}

	line := Line{
		Line:               item.Line,
		SKU:                candidate.ID,
		Material:           rfp.NormalizeMaterial(candidate.Material),
		Quantity:           decimal.NewFromFloat(item.Quantity),
		BasePrice:          decimal.NewFromFloat(candidate.BasePrice),
		MetalWeightKgPerKm: decimal.NewFromFloat(candidate.MetalWeightKgPerKm),
		CommodityRate:      decimal.NewFromFloat(rate),
		ServiceCost:        service,
		Tests:              append([]string(nil), tests...),
	}
	line.compute(line.CommodityRate, decimal.NewFromFloat(e.cfg.ExchangeRate), decimal.NewFromFloat(e.cfg.TargetMargin))

	return line, nil
}

// compute fills the derived cost fields of l for the given commodity rate.
func (l *Line) compute(rate, exchange, margin decimal.Decimal) {
	l.MetalCost = l.MetalWeightKgPerKm.Div(thousand).Mul(rate.Div(thousand)).Mul(exchange)
	l.UnitCost = l.BasePrice.Add(l.MetalCost)
	l.UnitPrice = l.UnitCost.Mul(margin)
	l.MaterialCost = l.UnitCost.Mul(l.Quantity)
	l.Subtotal = l.MaterialCost.Add(l.ServiceCost).Mul(margin)
}

// Price prices every line of req against its match and aggregates the bid.
// matches must hold one compliant result per line, in line order.
func (e *Engine) Price(req rfp.Request, matches []match.Result, rates commodity.Snapshot) (*Result, error) {
	if len(matches) != len(req.Lines) {
		return nil, fmt.Errorf("%w: %d matches for %d lines", rfp.ErrPreconditionFailed, len(matches), len(req.Lines))
	}

	result := &Result{
		Lines:        make([]Line, 0, len(req.Lines)),
		Currency:     e.cfg.Currency,
		ExchangeRate: decimal.NewFromFloat(e.cfg.ExchangeRate),
		TargetMargin: decimal.NewFromFloat(e.cfg.TargetMargin),
	}

	for i, item := range req.Lines {
		m := matches[i]
		if m.Candidate == nil || !m.Status.Compliant() {
			return nil, fmt.Errorf("%w: line %d has no compliant match", rfp.ErrPreconditionFailed, item.Line)
		}

		line, err := e.PriceLine(item, *m.Candidate, req.Tests, rates)
		if err != nil {
			return nil, err
		}
		result.Lines = append(result.Lines, line)
	}

	if req.BidBond.Required || req.LiquidatedDamages {
		result.RiskPremium = decimal.NewFromFloat(req.BidBond.Value).Mul(decimal.NewFromFloat(e.cfg.RiskPremiumRate))
	}

	result.total()
	return result, nil
}

func (r *Result) total() {
	r.CostBasis = decimal.Zero
	r.MarginAdjustedTotal = decimal.Zero
	for _, l := range r.Lines {
		r.CostBasis = r.CostBasis.Add(l.MaterialCost).Add(l.ServiceCost)
		r.MarginAdjustedTotal = r.MarginAdjustedTotal.Add(l.Subtotal)
	}
	r.Margin = r.MarginAdjustedTotal.Sub(r.CostBasis)
	r.GrandTotal = r.MarginAdjustedTotal.Add(r.RiskPremium)
}

// Shadow recomputes the bid with every commodity rate moved by shiftPercent
// (-10 = ten percent cheaper). The receiver is not modified; the returned
// Result is independent of it.
func (r *Result) Shadow(shiftPercent decimal.Decimal) *Result {
	factor := decimal.NewFromInt(100).Add(shiftPercent).Div(decimal.NewFromInt(100))

	shadow := *r
	shadow.Lines = make([]Line, len(r.Lines))
	for i, l := range r.Lines {
		l.Tests = append([]string(nil), l.Tests...)
		l.CommodityRate = r.Lines[i].CommodityRate.Mul(factor)
		l.compute(l.CommodityRate, r.ExchangeRate, r.TargetMargin)
		shadow.Lines[i] = l
	}
	shadow.total()

	return &shadow
}

// Violations returns the sanity-bound failures of the priced bid. An empty
// result means the bid may proceed.
func (r *Result) Violations(cfg Config) []string {
	var violations []string

	if r.GrandTotal.IsNegative() {
		violations = append(violations, "grand total is negative")
	}

	if cfg.TargetMargin < 1 || cfg.TargetMargin < cfg.MinimumMargin {
		violations = append(violations, fmt.Sprintf("target margin %g below minimum %g", cfg.TargetMargin, max(cfg.MinimumMargin, 1)))
	}

	if r.MarginAdjustedTotal.LessThan(r.CostBasis) {
		violations = append(violations, "margin-adjusted total below cost basis")
	}

	if cfg.MaxGrandTotal > 0 && r.GrandTotal.GreaterThan(decimal.NewFromFloat(cfg.MaxGrandTotal)) {
		violations = append(violations, fmt.Sprintf("grand total %s exceeds ceiling %g", r.GrandTotal.StringFixed(2), cfg.MaxGrandTotal))
	}

	return violations
}
