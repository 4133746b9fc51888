package employee

import (
	"context"
	"encoding/json"
	"strconv"

	"go-employees/internal/events"
	"go-employees/internal/messaging/kafka"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const aggregateType = "employee"

// EventPublisher records a lifecycle event inside the caller's transaction.
type EventPublisher interface {
	Publish(ctx context.Context, tx *gorm.DB, event events.EmployeeLifecycleEvent) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, *gorm.DB, events.EmployeeLifecycleEvent) error {
	return nil
}

type outboxEventPublisher struct {
	outbox kafka.OutboxRepository
	topic  string
}

// NewOutboxEventPublisher stores events in the outbox table; cmd/worker
// relays them to Kafka.
func NewOutboxEventPublisher(outbox kafka.OutboxRepository, topic string) EventPublisher {
	if topic == "" {
		topic = events.EmployeeLifecycleTopic
	}
	return &outboxEventPublisher{outbox: outbox, topic: topic}
}

func (p *outboxEventPublisher) Publish(
	ctx context.Context,
	tx *gorm.DB,
	event events.EmployeeLifecycleEvent,
) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: aggregateType,
		AggregateID:   strconv.FormatInt(event.EmployeeID, 10),
		EventType:     event.EventType,
		Topic:         p.topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
