package state_test

import (
	"context"
	"sync"

	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/orchestrate/state"
)

type run struct {
	ID    string   `json:"id"`
	Steps []string `json:"steps"`
	Count int      `json:"count"`
	Trail []string `json:"trail"`
}

func (r *run) RunID() string { return r.ID }

func step(name string) state.Node[*run] {
	return state.NewFunctionNode(func(ctx context.Context, r *run) (*run, error) {
		r.Steps = append(r.Steps, name)
		return r, nil
	})
}

func counter() state.Node[*run] {
	return state.NewFunctionNode(func(ctx context.Context, r *run) (*run, error) {
		r.Count++
		r.Steps = append(r.Steps, "count")
		return r, nil
	})
}

func failing(err error) state.Node[*run] {
	return state.NewFunctionNode(func(ctx context.Context, r *run) (*run, error) {
		r.Steps = append(r.Steps, "fail")
		return r, err
	})
}

func below(n int) state.Predicate[*run] {
	return func(r *run) bool { return r.Count < n }
}

type recorder struct {
	mu     sync.Mutex
	events []observability.Event
}

func (r *recorder) OnEvent(ctx context.Context, event observability.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) count(typ observability.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}
