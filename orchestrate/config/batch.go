package config

import "runtime"

// BatchConfig controls concurrent evaluation of independent runs.
//
// Worker Pool Sizing:
//   - MaxWorkers = 0: Auto-detect based on runtime.NumCPU() * 2, capped by WorkerCap
//   - MaxWorkers > 0: Use exact worker count, ignoring auto-detection
//
// Error Handling:
//   - FailFast = true: Stop scheduling new items on the first infrastructure error
//   - FailFast = false: Process every item and collect all errors
type BatchConfig struct {
	// MaxWorkers specifies exact worker pool size (0 = auto-detect)
	MaxWorkers int `json:"max_workers" yaml:"max_workers"`

	// WorkerCap limits auto-detected workers (default: 16)
	WorkerCap int `json:"worker_cap" yaml:"worker_cap"`

	// FailFastNil controls error handling behavior. Use FailFast() method to access.
	// When nil, defaults to false.
	FailFastNil *bool `json:"fail_fast" yaml:"fail_fast"`
}

func (c *BatchConfig) FailFast() bool {
	if c.FailFastNil == nil {
		return false
	}
	return *c.FailFastNil
}

// Workers resolves the pool size for n items.
func (c *BatchConfig) Workers(n int) int {
	workers := c.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
		if c.WorkerCap > 0 && workers > c.WorkerCap {
			workers = c.WorkerCap
		}
	}
	if n > 0 && workers > n {
		workers = n
	}
	return max(workers, 1)
}

// DefaultBatchConfig returns auto-detected workers capped at 16 and
// collect-all error handling.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxWorkers: 0,
		WorkerCap:  16,
	}
}

func (c *BatchConfig) Merge(source *BatchConfig) {
	if source.MaxWorkers > 0 {
		c.MaxWorkers = source.MaxWorkers
	}

	if source.WorkerCap > 0 {
		c.WorkerCap = source.WorkerCap
	}

	if source.FailFastNil != nil {
		c.FailFastNil = source.FailFastNil
	}
}
