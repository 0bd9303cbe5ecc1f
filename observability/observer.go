// Package observability carries structured events out of the bid workflow
// and the graph engine. Levels follow OpenTelemetry SeverityNumber ranges so
// events forward to a collector without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is an event severity on the OTel SeverityNumber scale.
type Level int

const (
	LevelVerbose Level = 5  // DEBUG 5-8
	LevelInfo    Level = 9  // INFO 9-12
	LevelWarning Level = 13 // WARN 13-16
	LevelError   Level = 17 // ERROR 17-20
)

func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel returns the slog level used when the event is logged.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event. Packages declare their own in events.go.
type EventType string

// Well-known Data keys shared by emitters and observers.
const (
	KeyRunID      = "run_id"
	KeyOutcome    = "outcome"
	KeyDurationMS = "duration_ms"
)

// Event is one observation. Source is the emitting graph or service name.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// RunID returns the workflow run the event belongs to, or "" for events
// outside a run such as batch or RPC events.
func (e Event) RunID() string {
	id, _ := e.Data[KeyRunID].(string)
	return id
}

// Observer receives events.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}
