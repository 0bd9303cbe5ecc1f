package config

// CheckpointConfig controls run state persistence during graph execution.
//
// Configuration fields:
//   - Store: Name of CheckpointStore implementation to use (resolved via registry)
//   - Interval: Save checkpoint every N node executions (0 = disabled)
//   - Preserve: Keep checkpoints after successful completion (false = auto-cleanup)
type CheckpointConfig struct {
	// Store identifies which CheckpointStore to use (resolved via registry)
	Store string `json:"store" yaml:"store"`

	// Interval controls checkpoint frequency (0 = disabled, N = every N nodes)
	Interval int `json:"interval" yaml:"interval"`

	// Preserve keeps checkpoints after successful execution (false = auto-cleanup)
	Preserve bool `json:"preserve" yaml:"preserve"`
}

// DefaultCheckpointConfig returns checkpoint configuration with checkpointing disabled.
func DefaultCheckpointConfig() CheckpointConfig {
	return CheckpointConfig{
		Store:    "memory",
		Interval: 0,
		Preserve: false,
	}
}

func (c *CheckpointConfig) Merge(source *CheckpointConfig) {
	if source.Store != "" {
		c.Store = source.Store
	}

	if source.Interval > 0 {
		c.Interval = source.Interval
	}

	if source.Preserve {
		c.Preserve = source.Preserve
	}
}

// GraphConfig defines configuration for state graph execution.
//
// The Observer and Checkpoint.Store fields are names resolved at runtime via
// registries, so the whole structure can be loaded from a file.
//
// Example YAML:
//
//	name: rfp-workflow
//	observer: slog
//	max_iterations: 50
//	checkpoint:
//	  store: sql
//	  interval: 1
type GraphConfig struct {
	// Name identifies the graph for observability
	Name string `json:"name" yaml:"name"`

	// Observer specifies which observer implementation to use ("noop", "slog", etc.)
	Observer string `json:"observer" yaml:"observer"`

	// MaxIterations limits graph execution to prevent infinite loops
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// Checkpoint configures run state persistence and recovery
	Checkpoint CheckpointConfig `json:"checkpoint" yaml:"checkpoint"`
}

// DefaultGraphConfig returns sensible defaults for graph execution.
//
// Default values:
//   - Observer: "slog" for structured logging
//   - MaxIterations: 1000 to protect against infinite loops
//   - Checkpoint: Disabled (Interval=0)
func DefaultGraphConfig(name string) GraphConfig {
	return GraphConfig{
		Name:          name,
		Observer:      "slog",
		MaxIterations: 1000,
		Checkpoint:    DefaultCheckpointConfig(),
	}
}

func (c *GraphConfig) Merge(source *GraphConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.MaxIterations > 0 {
		c.MaxIterations = source.MaxIterations
	}

	c.Checkpoint.Merge(&source.Checkpoint)
}
