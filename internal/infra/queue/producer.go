package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadCapturedPayload is published after a booking lands in the store, so
// downstream consumers (CRM sync) see new leads without polling.
type LeadCapturedPayload struct {
	LeadID  string `json:"lead_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Service string `json:"service"`
	Plan    string `json:"plan"`
	Message string `json:"message"`
}

type ProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload LeadCapturedPayload) error
}

type Producer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *Producer {
	return &Producer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *Producer) PublishLeadCaptured(ctx context.Context, payload LeadCapturedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to RabbitMQ: %w", err)
	}

	return nil
}
