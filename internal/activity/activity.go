// Package activity records what changed in the tutoring back office and hands
// each change to a message broker.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Kind string

const (
	StudentCreated      Kind = "student.created"
	StudentUpdated      Kind = "student.updated"
	ClassCreated        Kind = "class.created"
	ClassUpdated        Kind = "class.updated"
	ClassDeleted        Kind = "class.deleted"
	ClassStudentAdded   Kind = "class.student_added"
	ClassStudentRemoved Kind = "class.student_removed"
	PaymentCreated      Kind = "payment.created"
	PaymentUpdated      Kind = "payment.updated"
	PaymentDeleted      Kind = "payment.deleted"
	MaterialUploaded    Kind = "material.uploaded"
	MaterialDeleted     Kind = "material.deleted"
	SessionSignedIn     Kind = "session.signed_in"
	SessionSignedOut    Kind = "session.signed_out"
	ReminderChanged     Kind = "reminder.changed"
)

type Event struct {
	Kind     Kind      `json:"kind"`
	EntityID string    `json:"entityId"`
	At       time.Time `json:"at"`
}

// Producer interface for messaging (NATS/Kafka)
type Producer interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Recorder publishes events on a best-effort basis. A nil Recorder, or one
// without a producer, drops everything.
type Recorder struct {
	producer Producer
	logger   *slog.Logger
	now      func() time.Time
}

func NewRecorder(producer Producer, logger *slog.Logger) *Recorder {
	return &Recorder{
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// Record never fails the caller; publish errors are only logged.
func (r *Recorder) Record(ctx context.Context, kind Kind, entityID interface{}) {
	if r == nil || r.producer == nil {
		return
	}

	event := Event{
		Kind:     kind,
		EntityID: fmt.Sprint(entityID),
		At:       r.now().UTC(),
	}
	if err := r.producer.Publish(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "failed to publish activity event", "kind", kind, "entity_id", event.EntityID, "error", err)
	}
}

func (r *Recorder) Close() error {
	if r == nil || r.producer == nil {
		return nil
	}
	return r.producer.Close()
}
