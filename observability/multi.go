package observability

import "context"

// MultiObserver delivers each event to every member in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver drops nil members and flattens nested MultiObservers so
// an event is never delivered twice through a shared member list.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{}
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil:
		case *MultiObserver:
			m.observers = append(m.observers, o.observers...)
		default:
			m.observers = append(m.observers, o)
		}
	}
	return m
}

// Len reports the number of members.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
