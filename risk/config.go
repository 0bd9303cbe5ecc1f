package risk

// Config holds the risk model thresholds and penalties.
type Config struct {
	UrgentDays               int     `json:"urgent_days" yaml:"urgent_days"`
	ModerateDays             int     `json:"moderate_days" yaml:"moderate_days"`
	UrgentPoints             float64 `json:"urgent_points" yaml:"urgent_points"`
	ModeratePoints           float64 `json:"moderate_points" yaml:"moderate_points"`
	BidBondPenalty           float64 `json:"bid_bond_penalty" yaml:"bid_bond_penalty"`
	LiquidatedDamagesPenalty float64 `json:"liquidated_damages_penalty" yaml:"liquidated_damages_penalty"`
	PerformanceBondThreshold float64 `json:"performance_bond_threshold" yaml:"performance_bond_threshold"`
	PerformanceBondPenalty   float64 `json:"performance_bond_penalty" yaml:"performance_bond_penalty"`
	WindowDays               int     `json:"window_days" yaml:"window_days"`
	Ceiling                  float64 `json:"ceiling" yaml:"ceiling"`
	LowRiskCutoff            float64 `json:"low_risk_cutoff" yaml:"low_risk_cutoff"`
}

// DefaultConfig returns the standard bid-desk risk model.
//
// Default values:
//   - Urgency: +4 under 30 days, +2 under 60 days
//   - Penalties: bid bond +2, liquidated damages +3, performance bond +1 at 10%
//   - Qualification: due within 90 days and score at most 7
//   - Strategic tier below a score of 3
func DefaultConfig() Config {
	return Config{
		UrgentDays:               30,
		ModerateDays:             60,
		UrgentPoints:             4,
		ModeratePoints:           2,
		BidBondPenalty:           2,
		LiquidatedDamagesPenalty: 3,
		PerformanceBondThreshold: 10,
		PerformanceBondPenalty:   1,
		WindowDays:               90,
		Ceiling:                  7,
		LowRiskCutoff:            3,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.UrgentDays > 0 {
		c.UrgentDays = source.UrgentDays
	}
	if source.ModerateDays > 0 {
		c.ModerateDays = source.ModerateDays
	}
	if source.UrgentPoints > 0 {
		c.UrgentPoints = source.UrgentPoints
	}
	if source.ModeratePoints > 0 {
		c.ModeratePoints = source.ModeratePoints
	}
	if source.BidBondPenalty > 0 {
		c.BidBondPenalty = source.BidBondPenalty
	}
	if source.LiquidatedDamagesPenalty > 0 {
		c.LiquidatedDamagesPenalty = source.LiquidatedDamagesPenalty
	}
	if source.PerformanceBondThreshold > 0 {
		c.PerformanceBondThreshold = source.PerformanceBondThreshold
	}
	if source.PerformanceBondPenalty > 0 {
		c.PerformanceBondPenalty = source.PerformanceBondPenalty
	}
	if source.WindowDays > 0 {
		c.WindowDays = source.WindowDays
	}
	if source.Ceiling > 0 {
		c.Ceiling = source.Ceiling
	}
	if source.LowRiskCutoff > 0 {
		c.LowRiskCutoff = source.LowRiskCutoff
	}
}
