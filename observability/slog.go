package observability

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// SlogObserver writes events as log records: the event type is the message,
// then source and run_id, then the remaining Data keys in sorted order.
type SlogObserver struct {
	logger *slog.Logger
}

func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := event.Level.SlogLevel()
	if !o.logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(event.Data)+1)
	if event.Source != "" {
		attrs = append(attrs, slog.String("source", event.Source))
	}
	if id := event.RunID(); id != "" {
		attrs = append(attrs, slog.String(KeyRunID, id))
	}
	for _, k := range slices.Sorted(maps.Keys(event.Data)) {
		if k == KeyRunID {
			continue
		}
		attrs = append(attrs, slog.Any(k, event.Data[k]))
	}

	o.logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}
