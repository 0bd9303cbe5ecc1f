package advisory

// Config holds the processing-cost assumptions and scenario table.
type Config struct {
	ManualHours        float64   `json:"manual_hours" yaml:"manual_hours"`
	HourlyRate         float64   `json:"hourly_rate" yaml:"hourly_rate"`
	AutomatedMinutes   float64   `json:"automated_minutes" yaml:"automated_minutes"`
	Shifts             []float64 `json:"shifts" yaml:"shifts"`
	WinIncrementPerDay float64   `json:"win_increment_per_day" yaml:"win_increment_per_day"`
	WinIncrementCap    float64   `json:"win_increment_cap" yaml:"win_increment_cap"`
}

// DefaultConfig returns the reference assumptions: 48 manual hours at $50/h
// against two automated minutes, ±5% and ±10% commodity shifts, and a 12%
// win-probability gain per day saved capped at 24%.
func DefaultConfig() Config {
	return Config{
		ManualHours:        48,
		HourlyRate:         50,
		AutomatedMinutes:   2,
		Shifts:             []float64{-10, -5, 0, 5, 10},
		WinIncrementPerDay: 12,
		WinIncrementCap:    24,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.ManualHours > 0 {
		c.ManualHours = source.ManualHours
	}
	if source.HourlyRate > 0 {
		c.HourlyRate = source.HourlyRate
	}
	if source.AutomatedMinutes > 0 {
		c.AutomatedMinutes = source.AutomatedMinutes
	}
	if len(source.Shifts) > 0 {
		c.Shifts = source.Shifts
	}
	if source.WinIncrementPerDay > 0 {
		c.WinIncrementPerDay = source.WinIncrementPerDay
	}
	if source.WinIncrementCap > 0 {
		c.WinIncrementCap = source.WinIncrementCap
	}
}
