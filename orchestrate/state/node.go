package state

import "context"

// Node is a computation step in a graph. It receives the current state and
// returns the updated state. On error a node should still return the state it
// was working on.
type Node[S any] interface {
	Execute(ctx context.Context, s S) (S, error)
}

// FunctionNode wraps a function as a Node.
type FunctionNode[S any] struct {
	fn func(ctx context.Context, s S) (S, error)
}

// NewFunctionNode creates a Node from a function.
//
// Example:
//
//	node := state.NewFunctionNode(func(ctx context.Context, o *Order) (*Order, error) {
//	    if err := o.Validate(); err != nil {
//	        return o, err
//	    }
//	    o.Valid = true
//	    return o, nil
//	})
func NewFunctionNode[S any](fn func(context.Context, S) (S, error)) Node[S] {
	return &FunctionNode[S]{fn: fn}
}

// Execute runs the wrapped function with the given state.
func (n *FunctionNode[S]) Execute(ctx context.Context, s S) (S, error) {
	return n.fn(ctx, s)
}
