package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventSignatureSaved    = "signature.saved"
	EventSignaturesCleared = "signatures.cleared"
	EventApproversNotified = "approvers.notified"
)

// CampaignEvent is published after every committed change to the campaign.
type CampaignEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Email       string    `json:"email,omitempty"`
	SignedCount int       `json:"signed_count"`
	RosterCount int       `json:"roster_count"`
	IsComplete  bool      `json:"is_complete"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Channel is the publishing half of *amqp.Channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type EventProducer struct {
	Ch Channel
}

func NewProducer(ch Channel) *EventProducer {
	return &EventProducer{Ch: ch}
}

func (p *EventProducer) Publish(ctx context.Context, event CampaignEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, CampaignEvent) error { return nil }
