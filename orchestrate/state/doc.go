// Package state implements a typed state-graph executor.
//
// A Graph routes a state value of type S through named nodes. After each node
// the outgoing edges are evaluated in insertion order and the first whose
// predicate holds is followed. Execution ends at an exit point.
//
// # Core Components
//
//   - Node: computation step that transforms state
//   - Edge: named transition with an optional Predicate
//   - TransitionHook: callback fired on every transition, used for audit trails
//   - CheckpointStore: persistence for Resume after interruption
//
// # State Type
//
// S must implement Identified. Its RunID keys checkpoints and event
// metadata. Checkpoints are JSON-encoded, so S must round-trip through
// encoding/json for Resume to work.
//
// # Observability
//
// Graph execution emits graph, node, edge and checkpoint events through the
// observer named in GraphConfig.Observer, or the one given by WithObserver.
package state
