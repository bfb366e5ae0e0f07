package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RemoteMetrics records the golden signals of calls to the tutoring REST API.
type RemoteMetrics struct {
	// Latency
	callDuration metric.Float64Histogram

	// Traffic
	callsTotal metric.Int64Counter

	// Errors (transport failures and non-2xx)
	errorsTotal metric.Int64Counter

	// Saturation
	inFlight metric.Int64UpDownCounter
}

func NewRemoteMetrics(meter metric.Meter) (*RemoteMetrics, error) {
	rm := &RemoteMetrics{}

	var err error

	rm.callDuration, err = meter.Float64Histogram(
		"remote.call.duration",
		metric.WithDescription("REST API call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	)
	if err != nil {
		return nil, err
	}

	rm.callsTotal, err = meter.Int64Counter(
		"remote.calls_total",
		metric.WithDescription("Total number of REST API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	rm.errorsTotal, err = meter.Int64Counter(
		"remote.errors_total",
		metric.WithDescription("Total number of failed REST API calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	rm.inFlight, err = meter.Int64UpDownCounter(
		"remote.calls_in_flight",
		metric.WithDescription("Number of REST API calls currently in flight"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return rm, nil
}

// Start marks the beginning of a call and returns the function that ends it.
// status is 0 when the call failed before a response was received.
func (rm *RemoteMetrics) Start(ctx context.Context, method, resource string) func(status int, err error) {
	if rm == nil || rm.callDuration == nil {
		return func(int, error) {}
	}

	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("resource", resource),
	}
	rm.inFlight.Add(ctx, 1, metric.WithAttributes(attrs...))
	start := time.Now()

	return func(status int, err error) {
		rm.inFlight.Add(ctx, -1, metric.WithAttributes(attrs...))

		callAttrs := append(attrs, attribute.String("status", strconv.Itoa(status)))
		rm.callDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(callAttrs...))
		rm.callsTotal.Add(ctx, 1, metric.WithAttributes(callAttrs...))

		if err != nil || status >= 400 {
			rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(callAttrs...))
		}
	}
}
