package state

import (
	"context"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/orchestrate/config"
)

// Identified is the constraint on state flowing through a Graph. RunID keys
// checkpoints and event metadata.
type Identified interface {
	RunID() string
}

// Graph defines a workflow as a directed graph of nodes and edges over a
// typed state S.
//
// Example workflow structure:
//
//	graph, err := state.NewGraph[*Order](config.DefaultGraphConfig("orders"))
//	graph.AddNode("validate", validateNode)
//	graph.AddNode("ship", shipNode)
//	graph.AddNode("reject", rejectNode)
//	graph.AddEdge("validate", "ship", "valid", isValid)
//	graph.AddEdge("validate", "reject", "invalid", state.Not(isValid))
//	graph.SetEntryPoint("validate")
//	graph.SetExitPoint("ship")
//	graph.SetExitPoint("reject")
//	final, err := graph.Execute(ctx, order)
type Graph[S Identified] interface {
	// Name returns the graph identifier for event metadata
	Name() string

	// AddNode registers a computation step in the graph
	AddNode(name string, node Node[S]) error

	// AddEdge creates a named transition between nodes (predicate can be nil
	// for unconditional)
	AddEdge(from, to, name string, predicate Predicate[S]) error

	// SetEntryPoint defines the starting node for execution
	SetEntryPoint(node string) error

	// SetExitPoint defines a terminal node (execution stops here)
	SetExitPoint(node string) error

	// Validate checks the graph structure
	Validate() error

	// Execute runs the graph from the entry point with initial state
	Execute(ctx context.Context, initial S) (S, error)

	// Resume continues a run from its last checkpoint
	Resume(ctx context.Context, runID string) (S, error)
}

// Option configures a graph after config-driven initialization.
type Option[S Identified] func(*graph[S])

// WithObserver overrides the observer named in GraphConfig.
func WithObserver[S Identified](observer observability.Observer) Option[S] {
	return func(g *graph[S]) { g.observer = observer }
}

// WithCheckpointStore overrides the store named in CheckpointConfig.
func WithCheckpointStore[S Identified](store CheckpointStore) Option[S] {
	return func(g *graph[S]) { g.checkpointStore = store }
}

// WithTransitionHook registers a hook invoked on every transition, including
// the implicit start transition into the entry point.
func WithTransitionHook[S Identified](hook TransitionHook[S]) Option[S] {
	return func(g *graph[S]) { g.hook = hook }
}

type graph[S Identified] struct {
	name                string
	nodes               map[string]Node[S]
	edges               map[string][]Edge[S]
	entryPoint          string
	exitPoints          map[string]bool
	maxIterations       int
	observer            observability.Observer
	hook                TransitionHook[S]
	checkpointStore     CheckpointStore
	checkpointInterval  int
	preserveCheckpoints bool
}

// NewGraph creates a graph from configuration.
//
// The observer and checkpoint store are resolved from their registries by the
// names in cfg unless supplied through options. The checkpoint store is only
// resolved when checkpointing is enabled (Interval > 0).
func NewGraph[S Identified](cfg config.GraphConfig, opts ...Option[S]) (Graph[S], error) {
	g := &graph[S]{
		name:                cfg.Name,
		nodes:               make(map[string]Node[S]),
		edges:               make(map[string][]Edge[S]),
		exitPoints:          make(map[string]bool),
		maxIterations:       cfg.MaxIterations,
		checkpointInterval:  cfg.Checkpoint.Interval,
		preserveCheckpoints: cfg.Checkpoint.Preserve,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.observer == nil {
		observer, err := observability.GetObserver(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		g.observer = observer
	}

	if g.checkpointInterval > 0 && g.checkpointStore == nil {
		store, err := GetCheckpointStore(cfg.Checkpoint.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve checkpoint store: %w", err)
		}
		g.checkpointStore = store
	}

	return g, nil
}

func (g *graph[S]) Name() string {
	return g.name
}

// AddNode registers a computation step. Node names must be unique.
func (g *graph[S]) AddNode(name string, node Node[S]) error {
	if name == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}

	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("node %s already exists", name)
	}

	g.nodes[name] = node
	return nil
}

// AddEdge creates a transition between two registered nodes. Edges from the
// same node are evaluated in insertion order and the first match wins.
func (g *graph[S]) AddEdge(from, to, name string, predicate Predicate[S]) error {
	if from == "" {
		return fmt.Errorf("from node cannot be empty")
	}

	if to == "" {
		return fmt.Errorf("to node cannot be empty")
	}

	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("from node %s does not exist", from)
	}

	if _, exists := g.nodes[to]; !exists {
		return fmt.Errorf("to node %s does not exist", to)
	}

	g.edges[from] = append(g.edges[from], Edge[S]{
		From:      from,
		To:        to,
		Name:      name,
		Predicate: predicate,
	})
	return nil
}

func (g *graph[S]) SetEntryPoint(node string) error {
	if node == "" {
		return fmt.Errorf("entry point cannot be empty")
	}

	if g.entryPoint != "" {
		return fmt.Errorf("entry point already set to %s", g.entryPoint)
	}

	if _, exists := g.nodes[node]; !exists {
		return fmt.Errorf("entry point node %s does not exist", node)
	}

	g.entryPoint = node
	return nil
}

// SetExitPoint marks a terminal node. Multiple exit points are supported.
func (g *graph[S]) SetExitPoint(node string) error {
	if node == "" {
		return fmt.Errorf("exit point cannot be empty")
	}

	if _, exists := g.nodes[node]; !exists {
		return fmt.Errorf("exit point node %s does not exist", node)
	}

	g.exitPoints[node] = true
	return nil
}

// Validate ensures the graph has nodes, an entry point and at least one exit
// point. Execute calls it before running.
func (g *graph[S]) Validate() error {
	if len(g.nodes) == 0 {
		return fmt.Errorf("graph has no nodes")
	}

	if g.entryPoint == "" {
		return fmt.Errorf("entry point not set")
	}

	if len(g.exitPoints) == 0 {
		return fmt.Errorf("no exit points set")
	}

	if g.maxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive")
	}

	return nil
}

// Execute runs the graph from the entry point.
//
// Execution follows this algorithm:
//  1. Validate graph structure
//  2. Fire the start transition into the entry point
//  3. Execute the current node
//  4. Checkpoint if the interval is reached
//  5. Stop if the current node is an exit point
//  6. Follow the first outgoing edge whose predicate holds, firing the hook
//  7. Repeat from step 3
//
// A node error stops execution. The state the node returned is handed back
// together with an *ExecutionError, so nodes should return their working
// state alongside any error to keep partial results inspectable.
func (g *graph[S]) Execute(ctx context.Context, initial S) (S, error) {
	if err := g.Validate(); err != nil {
		return initial, fmt.Errorf("graph validation failed: %w", err)
	}

	s := g.transition(ctx, initial, Transition{To: g.entryPoint, Name: "start"})
	return g.execute(ctx, g.entryPoint, s)
}

// Resume loads the checkpoint for runID and continues from the node after
// the checkpointed one.
//
// Returns error if checkpointing is disabled, the checkpoint is missing or
// cannot be decoded, the checkpoint sits on an exit point, or no edge from
// the checkpoint node matches.
func (g *graph[S]) Resume(ctx context.Context, runID string) (S, error) {
	var zero S

	if g.checkpointStore == nil {
		return zero, fmt.Errorf("checkpointing not enabled for this graph")
	}

	if err := g.Validate(); err != nil {
		return zero, fmt.Errorf("graph validation failed: %w", err)
	}

	cp, err := g.checkpointStore.Load(runID)
	if err != nil {
		return zero, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	s, err := Decode[S](cp.Data)
	if err != nil {
		return zero, fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	g.emit(ctx, EventCheckpointLoad, observability.LevelInfo, map[string]any{
		"node":   cp.Node,
		"run_id": runID,
	})

	edge, err := g.nextEdge(cp.Node, s)
	if err != nil {
		return s, fmt.Errorf("failed to find next node after checkpoint: %w", err)
	}

	g.emit(ctx, EventCheckpointResume, observability.LevelInfo, map[string]any{
		"checkpoint_node": cp.Node,
		"resume_node":     edge.To,
		"run_id":          runID,
	})

	s = g.transition(ctx, s, Transition{From: edge.From, To: edge.To, Name: edge.Name})
	return g.execute(ctx, edge.To, s)
}

func (g *graph[S]) execute(ctx context.Context, start string, s S) (S, error) {
	g.emit(ctx, EventGraphStart, observability.LevelInfo, map[string]any{
		"entry_point": start,
		"run_id":      s.RunID(),
		"exit_points": len(g.exitPoints),
	})

	current := start
	iterations := 0
	visited := make(map[string]int)
	path := make([]string, 0, len(g.nodes))

	fail := func(err error) (S, error) {
		return s, &ExecutionError{
			NodeName:  current,
			Path:      path,
			Iteration: iterations,
			Err:       err,
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("execution cancelled: %w", err))
		}

		iterations++
		if iterations > g.maxIterations {
			return fail(fmt.Errorf("max iterations (%d) exceeded", g.maxIterations))
		}

		visited[current]++
		path = append(path, current)

		if visited[current] > 1 {
			g.emit(ctx, EventCycleDetected, observability.LevelVerbose, map[string]any{
				"node":        current,
				"visit_count": visited[current],
				"iteration":   iterations,
				"run_id":      s.RunID(),
			})
		}

		node, exists := g.nodes[current]
		if !exists {
			return fail(fmt.Errorf("node %s not found", current))
		}

		g.emit(ctx, EventNodeStart, observability.LevelVerbose, map[string]any{
			"node":      current,
			"iteration": iterations,
			"run_id":    s.RunID(),
		})

		started := time.Now()
		next, err := node.Execute(ctx, s)
		s = next

		g.emit(ctx, EventNodeComplete, observability.LevelVerbose, map[string]any{
			"node":        current,
			"iteration":   iterations,
			"run_id":      s.RunID(),
			"duration_ms": time.Since(started).Milliseconds(),
			"error":       err != nil,
		})

		if err != nil {
			return fail(fmt.Errorf("node execution failed: %w", err))
		}

		if g.checkpointInterval > 0 && iterations%g.checkpointInterval == 0 {
			if err := g.checkpoint(ctx, current, s); err != nil {
				return fail(fmt.Errorf("checkpoint save failed: %w", err))
			}
		}

		if g.exitPoints[current] {
			g.emit(ctx, EventGraphComplete, observability.LevelInfo, map[string]any{
				"exit_point":  current,
				"iterations":  iterations,
				"path_length": len(path),
				"run_id":      s.RunID(),
			})

			if g.checkpointInterval > 0 && !g.preserveCheckpoints {
				if err := g.checkpointStore.Delete(s.RunID()); err != nil {
					g.emit(ctx, EventCheckpointDelete, observability.LevelWarning, map[string]any{
						"run_id": s.RunID(),
						"error":  err.Error(),
					})
				}
			}

			return s, nil
		}

		edge, err := g.nextEdgeObserved(ctx, current, s)
		if err != nil {
			return fail(err)
		}

		s = g.transition(ctx, s, Transition{From: edge.From, To: edge.To, Name: edge.Name, Iteration: iterations})
		current = edge.To
	}
}

func (g *graph[S]) checkpoint(ctx context.Context, node string, s S) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	if err := g.checkpointStore.Save(Checkpoint{
		RunID:     s.RunID(),
		Node:      node,
		Timestamp: time.Now(),
		Data:      data,
	}); err != nil {
		return err
	}

	g.emit(ctx, EventCheckpointSave, observability.LevelVerbose, map[string]any{
		"node":   node,
		"run_id": s.RunID(),
	})
	return nil
}

func (g *graph[S]) transition(ctx context.Context, s S, t Transition) S {
	g.emit(ctx, EventEdgeTransition, observability.LevelVerbose, map[string]any{
		"from":      t.From,
		"to":        t.To,
		"edge":      t.Name,
		"iteration": t.Iteration,
		"run_id":    s.RunID(),
	})

	if g.hook != nil {
		s = g.hook(s, t)
	}
	return s
}

func (g *graph[S]) nextEdgeObserved(ctx context.Context, from string, s S) (Edge[S], error) {
	edges, ok := g.edges[from]
	if !ok {
		return Edge[S]{}, fmt.Errorf("node %s has no outgoing edges and is not an exit point", from)
	}

	for i, edge := range edges {
		g.emit(ctx, EventEdgeEvaluate, observability.LevelVerbose, map[string]any{
			"from":          edge.From,
			"to":            edge.To,
			"edge":          edge.Name,
			"edge_index":    i,
			"has_predicate": edge.Predicate != nil,
		})

		if edge.Predicate == nil || edge.Predicate(s) {
			return edge, nil
		}
	}

	return Edge[S]{}, fmt.Errorf("no valid transition from node %s", from)
}

// nextEdge finds the edge to follow from a checkpoint node.
func (g *graph[S]) nextEdge(from string, s S) (Edge[S], error) {
	if g.exitPoints[from] {
		return Edge[S]{}, fmt.Errorf("checkpoint was at exit point, execution already complete")
	}

	edges, ok := g.edges[from]
	if !ok {
		return Edge[S]{}, fmt.Errorf("no outgoing edges from checkpoint node: %s", from)
	}

	for _, edge := range edges {
		if edge.Predicate == nil || edge.Predicate(s) {
			return edge, nil
		}
	}

	return Edge[S]{}, fmt.Errorf("no valid edge transition from checkpoint node: %s", from)
}

func (g *graph[S]) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	g.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    g.name,
		Data:      data,
	})
}
