package usecase

import (
	"context"
	"encoding/json"
	"log"

	"github.com/elevenxsolutions/elevenx-api/internal/entity"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/queue"
)

type SubmitBookingInput struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Service string          `json:"service"`
	Plan    string          `json:"plan"`
	Message string          `json:"message"`
	UTM     json.RawMessage `json:"utm"`
}

type SubmitBookingOutput struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *entity.Lead `json:"data"`
}

type SubmitBookingUseCase struct {
	Repo  entity.LeadRepositoryInterface
	Queue QueueProducerInterface
}

func NewSubmitBookingUseCase(repo entity.LeadRepositoryInterface, producer QueueProducerInterface) *SubmitBookingUseCase {
	return &SubmitBookingUseCase{
		Repo:  repo,
		Queue: producer,
	}
}

func (uc *SubmitBookingUseCase) Execute(ctx context.Context, input SubmitBookingInput) (*SubmitBookingOutput, error) {
	validationErrors := ValidateSubmitBookingInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for i, e := range validationErrors {
			if i > 0 {
				errMsg += ", "
			}
			errMsg += e.Field + " (" + e.Message + ")"
		}
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: errMsg,
		}
	}

	if uc.Repo == nil {
		return nil, &DomainError{
			Code:    CodeConfiguration,
			Message: "booking storage is not configured",
		}
	}

	lead, err := entity.NewLead(
		input.Name,
		input.Email,
		input.Message,
		optional(input.Service),
		optional(input.Plan),
		input.UTM,
	)
	if err != nil {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: err.Error(),
		}
	}

	if err := uc.Repo.Insert(ctx, lead); err != nil {
		log.Printf("lead insert failed: %v", err)
		return nil, &TechnicalError{
			Code:    CodeStorage,
			Message: "failed to save booking",
		}
	}

	// Fan-out is best-effort: a broker outage must never lose a booking
	// that is already in the store.
	if uc.Queue != nil {
		payload := queue.LeadCapturedPayload{
			LeadID:  lead.ID,
			Name:    lead.Name,
			Email:   lead.Email,
			Message: lead.Message,
		}
		if lead.Service != nil {
			payload.Service = *lead.Service
		}
		if lead.Plan != nil {
			payload.Plan = *lead.Plan
		}
		if err := uc.Queue.PublishLeadCaptured(ctx, payload); err != nil {
			log.Printf("lead-captured publish failed for %s: %v", lead.ID, err)
		}
	}

	return &SubmitBookingOutput{
		Success: true,
		Message: "booking received",
		Data:    lead,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
