package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"cantinho/common/metrics"
	"cantinho/internal/activity"

	"github.com/nats-io/nats.go"
)

// Producer publishes activity events on "<subject>.<kind>".
type Producer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	metrics *metrics.MessagingMetrics
}

func NewProducer(url string, subject string, logger *slog.Logger, m *metrics.MessagingMetrics) (*Producer, error) {
	nc, err := nats.Connect(url, nats.Name("cantinho-bff"))
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &Producer{
		conn:    nc,
		subject: subject,
		logger:  logger,
		metrics: m,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, event activity.Event) error {
	valueBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	subject := p.subject + "." + string(event.Kind)
	start := time.Now()
	err = p.conn.Publish(subject, valueBytes)
	p.metrics.RecordPublish(ctx, "nats", subject, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event to NATS", "subject", subject, "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event published to NATS", "subject", subject)
	return nil
}

func (p *Producer) Close() error {
	return p.conn.Drain()
}
