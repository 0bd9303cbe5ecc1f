package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver counts events in Prometheus collectors. Events carrying an
// "outcome" attribute also feed the outcome counter, and those carrying
// "duration_ms" are observed into the duration histogram.
type MetricsObserver struct {
	events   *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsObserver creates the collectors under namespace and registers
// them with reg.
func NewMetricsObserver(namespace string, reg prometheus.Registerer) (*MetricsObserver, error) {
	m := &MetricsObserver{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Observability events by type and source.",
		}, []string{"type", "source"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Finished runs by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Duration reported by events, by event type.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"type"}),
	}

	for _, c := range []prometheus.Collector{m.events, m.outcomes, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *MetricsObserver) OnEvent(ctx context.Context, event Event) {
	m.events.WithLabelValues(string(event.Type), event.Source).Inc()

	if outcome, ok := event.Data[KeyOutcome].(string); ok && outcome != "" {
		m.outcomes.WithLabelValues(outcome).Inc()
	}

	if ms, ok := event.Data[KeyDurationMS].(int64); ok {
		m.duration.WithLabelValues(string(event.Type)).Observe(float64(ms) / 1000)
	}
}
