package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"esportfed/internal/logger"

	skafka "github.com/segmentio/kafka-go"
)

// StatusChange is emitted whenever a member row changes status.
type StatusChange struct {
	MemberID   string    `json:"member_id"`
	Email      string    `json:"email"`
	Category   string    `json:"category"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	ReasonRegistered = "registered"
	ReasonPayment    = "payment"
	ReasonOperator   = "operator"
	ReasonExpiry     = "expiry"
)

type Publisher interface {
	Publish(ctx context.Context, change StatusChange) error
	Close() error
}

// Writer is the subset of kafka-go's Writer used here.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer Writer
}

func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&skafka.Writer{
		Addr:     skafka.TCP(broker),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	})
}

func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish keys messages by member id so one member's changes stay ordered on a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, change StatusChange) error {
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, skafka.Message{Key: []byte(change.MemberID), Value: payload}); err != nil {
		logger.Warn("status change publish failed", "member_id", change.MemberID, "error", err)
		return fmt.Errorf("publish status change: %w", err)
	}

	logger.Debug("status change published", "member_id", change.MemberID, "to", change.To)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, StatusChange) error { return nil }
func (NopPublisher) Close() error                                { return nil }

// New returns a Kafka publisher, or a no-op one when broker is empty.
func New(broker, topic string) Publisher {
	if broker == "" {
		logger.Info("kafka broker not configured, status change feed disabled")
		return NopPublisher{}
	}
	return NewKafkaPublisher(broker, topic)
}
