package pricing

// Config holds pricing constants. ExchangeRate converts the commodity rate
// currency into the bid Currency.
type Config struct {
	Currency        string  `json:"currency" yaml:"currency"`
	ExchangeRate    float64 `json:"exchange_rate" yaml:"exchange_rate"`
	TargetMargin    float64 `json:"target_margin" yaml:"target_margin"`
	MinimumMargin   float64 `json:"minimum_margin" yaml:"minimum_margin"`
	RiskPremiumRate float64 `json:"risk_premium_rate" yaml:"risk_premium_rate"`
	MaxGrandTotal   float64 `json:"max_grand_total,omitempty" yaml:"max_grand_total"`
}

// DefaultConfig returns INR pricing at a 15% target margin.
//
// Default values:
//   - ExchangeRate: 83 INR per USD
//   - TargetMargin: 1.15, MinimumMargin: 1.05
//   - RiskPremiumRate: 2% of the bid bond value
//   - MaxGrandTotal: 0 (no ceiling)
func DefaultConfig() Config {
	return Config{
		Currency:        "INR",
		ExchangeRate:    83,
		TargetMargin:    1.15,
		MinimumMargin:   1.05,
		RiskPremiumRate: 0.02,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Currency != "" {
		c.Currency = source.Currency
	}
	if source.ExchangeRate > 0 {
		c.ExchangeRate = source.ExchangeRate
	}
	if source.TargetMargin > 0 {
		c.TargetMargin = source.TargetMargin
	}
	if source.MinimumMargin > 0 {
		c.MinimumMargin = source.MinimumMargin
	}
	if source.RiskPremiumRate > 0 {
		c.RiskPremiumRate = source.RiskPremiumRate
	}
	if source.MaxGrandTotal > 0 {
		c.MaxGrandTotal = source.MaxGrandTotal
	}
}
