package usecase

import (
	"context"
	"io"

	"github.com/elevenxsolutions/elevenx-api/internal/entity"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/integration/groq"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/queue"
)

type EmailService interface {
	SendLeadNotification(lead *entity.Lead) error
	SendLeadAcknowledgment(lead *entity.Lead) error
}

type QueueProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}

type CompletionStreamer interface {
	CreateCompletionStream(ctx context.Context, messages []groq.Message) (io.ReadCloser, error)
}
