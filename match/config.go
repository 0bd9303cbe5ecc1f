package match

// Config controls candidate retrieval and relaxation.
type Config struct {
	// TopK is the number of candidates requested from the searcher.
	TopK int `json:"top_k" yaml:"top_k"`

	// SizeIncrementMM2 widens the size tolerance on each retry.
	SizeIncrementMM2 float64 `json:"size_increment_mm2" yaml:"size_increment_mm2"`

	// AdjacentFromAttempt is the 1-based attempt at which adjacent-tier
	// insulation matches start scoring half weight.
	AdjacentFromAttempt int `json:"adjacent_from_attempt" yaml:"adjacent_from_attempt"`

	// Attempts is the number of schedule levels (first attempt plus retries).
	Attempts int `json:"attempts" yaml:"attempts"`
}

// DefaultConfig returns the standard three-attempt relaxation schedule.
func DefaultConfig() Config {
	return Config{
		TopK:                5,
		SizeIncrementMM2:    10,
		AdjacentFromAttempt: 3,
		Attempts:            3,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.TopK > 0 {
		c.TopK = source.TopK
	}
	if source.SizeIncrementMM2 > 0 {
		c.SizeIncrementMM2 = source.SizeIncrementMM2
	}
	if source.AdjacentFromAttempt > 0 {
		c.AdjacentFromAttempt = source.AdjacentFromAttempt
	}
	if source.Attempts > 0 {
		c.Attempts = source.Attempts
	}
}

// Schedule expands the configuration into an explicit relaxation table.
func (c Config) Schedule() Schedule {
	attempts := max(c.Attempts, 1)
	levels := make(Schedule, attempts)
	for i := range levels {
		levels[i] = Tolerance{
			SizeMM2:            float64(i) * c.SizeIncrementMM2,
			AdjacentInsulation: c.AdjacentFromAttempt > 0 && i+1 >= c.AdjacentFromAttempt,
		}
	}
	return levels
}

// Schedule is the ordered table of tolerance levels, indexed by retry count.
type Schedule []Tolerance

// At returns the tolerance for the given retry count. Counts beyond the table
// reuse the loosest level.
func (s Schedule) At(retry int) Tolerance {
	if len(s) == 0 {
		return Tolerance{}
	}
	if retry < 0 {
		retry = 0
	}
	if retry >= len(s) {
		retry = len(s) - 1
	}
	return s[retry]
}

// MaxRetries is the number of retries the schedule supports after the first
// attempt.
func (s Schedule) MaxRetries() int {
	return max(len(s)-1, 0)
}
