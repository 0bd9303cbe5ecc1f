package state

// Edge is a named transition between nodes. A nil Predicate always matches.
type Edge[S any] struct {
	// From is the source node name
	From string

	// To is the destination node name
	To string

	// Name identifies the routing decision (e.g., "qualified", "retry")
	Name string

	// Predicate determines if this edge can be traversed (nil = always transition)
	Predicate Predicate[S]
}

// Predicate evaluates state to determine if an edge can be traversed.
type Predicate[S any] func(s S) bool

// Transition describes a single move between nodes. The start transition into
// the entry point has an empty From.
type Transition struct {
	From      string
	To        string
	Name      string
	Iteration int
}

// TransitionHook observes a transition and may return an updated state, such
// as one with an appended audit entry.
type TransitionHook[S any] func(s S, t Transition) S

// Always returns a predicate that always evaluates to true.
func Always[S any]() Predicate[S] {
	return func(S) bool { return true }
}

// Not inverts a predicate.
//
// Example:
//
//	rejected := state.Not(isApproved)
func Not[S any](predicate Predicate[S]) Predicate[S] {
	return func(s S) bool {
		return !predicate(s)
	}
}

// And combines predicates with logical AND (all must be true).
func And[S any](predicates ...Predicate[S]) Predicate[S] {
	return func(s S) bool {
		for _, p := range predicates {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// Or combines predicates with logical OR (at least one must be true).
func Or[S any](predicates ...Predicate[S]) Predicate[S] {
	return func(s S) bool {
		for _, p := range predicates {
			if p(s) {
				return true
			}
		}
		return false
	}
}
