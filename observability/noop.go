package observability

import "context"

// NoOpObserver discards events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}
