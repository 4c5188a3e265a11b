package analytics

import (
	"context"

	"github.com/2beens/nutrifit/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

var (
	_ Sink = NoopSink{}
	_ Sink = LogSink{}
	_ Sink = (*MetricsSink)(nil)
	_ Sink = MultiSink(nil)
	_ Sink = (*AMQPSink)(nil)
	_ Sink = (*RecordingSink)(nil)
)

// Sink receives analytics events. Emitting is fire-and-forget: a sink never
// reports back and must not block the caller for long.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// Emit sends the event to sink, a nil sink drops it.
func Emit(ctx context.Context, sink Sink, event Event) {
	if sink == nil {
		return
	}
	sink.Emit(ctx, event)
}

type NoopSink struct{}

func (NoopSink) Emit(context.Context, Event) {}

type LogSink struct{}

func (LogSink) Emit(_ context.Context, event Event) {
	log.WithFields(log.Fields{
		"kind": event.Kind,
		"user": event.UserID,
	}).Debugf("analytics event: %+v", event.Payload)
}

type MetricsSink struct {
	metrics *metrics.Manager
}

func NewMetricsSink(metricsManager *metrics.Manager) *MetricsSink {
	return &MetricsSink{
		metrics: metricsManager,
	}
}

func (s *MetricsSink) Emit(_ context.Context, event Event) {
	s.metrics.CounterAnalyticsEvents.WithLabelValues(event.Kind.String()).Inc()
}

// MultiSink fans every event out to all its sinks, in order.
type MultiSink []Sink

func (ms MultiSink) Emit(ctx context.Context, event Event) {
	for _, s := range ms {
		Emit(ctx, s, event)
	}
}
