package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type MessagingMetrics struct {
	eventsPublished metric.Int64Counter
	publishDuration metric.Float64Histogram
	publishErrors   metric.Int64Counter
}

func NewMessagingMetrics(meter metric.Meter) (*MessagingMetrics, error) {
	mm := &MessagingMetrics{}

	var err error

	mm.eventsPublished, err = meter.Int64Counter(
		"messaging.events.published",
		metric.WithDescription("Total number of activity events published"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	// Buckets: 100µs, 500µs, 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s
	mm.publishDuration, err = meter.Float64Histogram(
		"messaging.event.publish_duration",
		metric.WithDescription("Time spent publishing an activity event"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0),
	)
	if err != nil {
		return nil, err
	}

	mm.publishErrors, err = meter.Int64Counter(
		"messaging.event.errors",
		metric.WithDescription("Total number of failed activity event publishes"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return mm, nil
}

// RecordPublish records one publish attempt. broker is "nats" or "kafka".
func (mm *MessagingMetrics) RecordPublish(ctx context.Context, broker, destination string, duration time.Duration, err error) {
	if mm == nil || mm.eventsPublished == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("broker", broker),
		attribute.String("destination", destination),
	}

	mm.eventsPublished.Add(ctx, 1, metric.WithAttributes(attrs...))
	mm.publishDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if err != nil {
		mm.publishErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
