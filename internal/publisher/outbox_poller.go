package publisher

import (
	"context"
	"log"
	"time"

	"github.com/esencia-ar/backend/internal/repository"
	"github.com/segmentio/kafka-go"
)

// EventSource is the slice of the repository the poller needs.
type EventSource interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*repository.OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
	FindOrdersMissingEvents(ctx context.Context, olderThan time.Duration) ([]*repository.OutboxEvent, error)
	EnqueueOrderEvent(ctx context.Context, orderID string) error
}

// MessageWriter matches kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxPoller drains the outbox table into Kafka and re-enqueues orders
// whose outbox row went missing.
type OutboxPoller struct {
	eventTick    time.Duration
	recoveryTick time.Duration
	graceWindow  time.Duration
	repo         EventSource
	writer       MessageWriter
}

func NewOutboxPoller(repo EventSource, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		eventTick:    time.Second,
		recoveryTick: time.Minute,
		graceWindow:  5 * time.Minute,
		repo:         repo,
		writer:       w,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	recoveryTicker := time.NewTicker(p.recoveryTick)
	defer eventTicker.Stop()
	defer recoveryTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-recoveryTicker.C:
			p.recoverMissingEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		if errPublish := p.publishToKafka(ctx, event); errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		if errMark := p.repo.MarkEventAsProcessed(ctx, event.ID); errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

// recoverMissingEvents re-enqueues orders that were committed without a
// surviving outbox row, so downstream consumers eventually see every order.
func (p *OutboxPoller) recoverMissingEvents(ctx context.Context) {
	stuck, err := p.repo.FindOrdersMissingEvents(ctx, p.graceWindow)
	if err != nil {
		log.Printf("failed to find orders missing events: %v", err)
		return
	}
	for _, ev := range stuck {
		log.Printf("re-enqueueing event for order: %v", ev.AggregateID)
		if err := p.repo.EnqueueOrderEvent(ctx, ev.AggregateID); err != nil {
			log.Printf("failed to re-enqueue order %v: %v", ev.AggregateID, err)
		}
	}
}

func (p *OutboxPoller) publishToKafka(ctx context.Context, event *repository.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // order id for partition ordering
		Value: event.Payload,             // already JSON from the database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
