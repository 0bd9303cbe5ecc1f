package workflow

import "github.com/tailored-agentic-units/rfp/orchestrate/config"

// Config controls routing thresholds and the underlying graph and batch
// execution.
type Config struct {
	// AutoApproveRisk is the highest risk score a fully qualified bid may
	// carry and still be approved without review.
	AutoApproveRisk float64 `json:"auto_approve_risk" yaml:"auto_approve_risk"`

	Graph config.GraphConfig `json:"graph" yaml:"graph"`
	Batch config.BatchConfig `json:"batch" yaml:"batch"`
}

// DefaultConfig returns auto-approval up to risk 5 on a slog-observed graph.
func DefaultConfig() Config {
	graph := config.DefaultGraphConfig("rfp-workflow")
	graph.MaxIterations = 50

	return Config{
		AutoApproveRisk: 5,
		Graph:           graph,
		Batch:           config.DefaultBatchConfig(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.AutoApproveRisk > 0 {
		c.AutoApproveRisk = source.AutoApproveRisk
	}
	c.Graph.Merge(&source.Graph)
	c.Batch.Merge(&source.Batch)
}
