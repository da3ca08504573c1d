package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/elevenxsolutions/elevenx-api/internal/infra/integration/crm"
)

// CRMClient is the contract the worker needs from the CRM integration.
type CRMClient interface {
	CreateContact(ctx context.Context, input crm.CreateContactInput) (string, error)
}

// Worker drains lead-captured events and mirrors each lead into the CRM.
// It is fully decoupled from the database; everything it needs travels in
// the message.
type Worker struct {
	Channel   *amqp.Channel
	CRMClient CRMClient
}

func NewWorker(ch *amqp.Channel, crmClient CRMClient) *Worker {
	return &Worker{
		Channel:   ch,
		CRMClient: crmClient,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("registering RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadCapturedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[WORKER] invalid JSON, sending to DLQ: %s", err)
				// Malformed message; reject without requeue so it does not
				// wedge the queue.
				d.Nack(false, false)
				continue
			}

			log.Printf("[WORKER] syncing lead %s to CRM", payload.LeadID)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("[WORKER] CRM sync failed for lead %s: %s", payload.LeadID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker running, waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload LeadCapturedPayload) error {
	_, err := w.CRMClient.CreateContact(ctx, crm.CreateContactInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Service: payload.Service,
		Plan:    payload.Plan,
		Message: payload.Message,
	})
	return err
}
