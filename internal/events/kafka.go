package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/polkiloo/ffmarket/internal/domain/model"
)

// publishTimeout bounds a single publish on the settling request.
const publishTimeout = 3 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes settlement events to Kafka topics keyed by order id.
type KafkaPublisher struct {
	writer  messageWriter
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration
}

// NewKafkaPublisher creates publisher for the broker list.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           2 * time.Second,
		MaxAttempts:            3,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger, now: time.Now, timeout: publishTimeout}
}

// OrderSettled publishes completion or cancellation of the order. Orders that
// are still pending are ignored.
func (p *KafkaPublisher) OrderSettled(ctx context.Context, order model.Order) error {
	topic, eventType, ok := routeFor(order.Status)
	if !ok {
		return nil
	}

	payload, err := json.Marshal(OrderSettledPayload{
		OrderID:       order.ID,
		ProductID:     order.ProductID,
		BuyerID:       order.BuyerID,
		SellerID:      order.SellerID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		TotalPrice:    order.TotalPrice.StringFixed(2),
		InvoiceID:     order.InvoiceID,
		TransactionID: order.TransactionID,
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	envelope := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    p.now().UTC(),
		Producer:      producerName,
		CorrelationID: order.ID,
		Payload:       payload,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   PartitionKey(order.ID),
		Value: value,
		Time:  envelope.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	p.logger.Debug("order event published",
		slog.String("order_id", order.ID),
		slog.String("event_type", eventType),
		slog.String("event_id", envelope.EventID),
	)
	return nil
}

// Close flushes pending writes.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
