// Package config provides configuration structures for orchestration
// primitives.
//
// Configuration only exists during initialization. Observer and checkpoint
// store selections are names resolved through registries when a graph is
// built, which keeps every structure loadable from YAML or JSON.
//
// # Configuration Merging
//
// All configuration types support a Merge pattern. Loaded configs merge over
// defaults:
//
//	cfg := config.DefaultGraphConfig("workflow")
//	var loaded config.GraphConfig
//	yaml.Unmarshal(data, &loaded)
//	cfg.Merge(&loaded)
//
// Merge semantics by field type:
//
//   - Strings: Merge if source is non-empty
//   - Integers: Merge if source is greater than zero
//   - Pointers: Merge if source is non-nil
//   - Nested configs: Recursive merge
//
// # Boolean Fields
//
// A boolean that must be explicitly overridable in both directions is stored
// as *bool with a "Nil" suffix and read through an accessor with the original
// name (BatchConfig.FailFastNil and FailFast). An unset field stays nil after
// unmarshaling partial input, so the accessor can return the default.
package config
