package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"cantinho/common/metrics"
	"cantinho/internal/activity"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_Publish(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("Success_KeyedByKind", func(t *testing.T) {
		config := sarama.NewConfig()
		config.Producer.Return.Successes = true
		syncProducer := mocks.NewSyncProducer(t, config)

		syncProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			assert.Equal(t, "cantinho.activity", msg.Topic)

			key, err := msg.Key.Encode()
			require.NoError(t, err)
			assert.Equal(t, "student.updated", string(key))

			value, err := msg.Value.Encode()
			require.NoError(t, err)
			var event activity.Event
			require.NoError(t, json.Unmarshal(value, &event))
			assert.Equal(t, "12", event.EntityID)
			return nil
		})

		producer := newProducer(syncProducer, "cantinho.activity", logger, metrics.NewMock().Messaging)
		defer producer.Close()

		err := producer.Publish(context.Background(), activity.Event{
			Kind:     activity.StudentUpdated,
			EntityID: "12",
			At:       time.Now(),
		})
		require.NoError(t, err)
	})

	t.Run("BrokerError", func(t *testing.T) {
		config := sarama.NewConfig()
		config.Producer.Return.Successes = true
		syncProducer := mocks.NewSyncProducer(t, config)
		syncProducer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

		producer := newProducer(syncProducer, "cantinho.activity", logger, nil)
		defer producer.Close()

		err := producer.Publish(context.Background(), activity.Event{Kind: activity.ClassDeleted, EntityID: "1"})
		assert.True(t, errors.Is(err, sarama.ErrNotLeaderForPartition))
	})
}
