package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"cantinho/common/metrics"
	"cantinho/internal/activity"

	"github.com/IBM/sarama"
)

// Producer writes activity events to one topic, keyed by event kind.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	metrics  *metrics.MessagingMetrics
}

func NewProducer(brokers []string, topic string, logger *slog.Logger, m *metrics.MessagingMetrics) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	logger.Info("kafka producer initialized", "brokers", brokers, "topic", topic)

	return newProducer(producer, topic, logger, m), nil
}

func newProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger, m *metrics.MessagingMetrics) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   logger,
		metrics:  m,
	}
}

func (p *Producer) Publish(ctx context.Context, event activity.Event) error {
	valueBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Kind),
		Value: sarama.ByteEncoder(valueBytes),
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	p.metrics.RecordPublish(ctx, "kafka", p.topic, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to kafka", "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event sent to kafka", "topic", p.topic, "partition", partition, "offset", offset, "kind", event.Kind)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
