package usecase

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/elevenxsolutions/elevenx-api/internal/entity"
)

// DispatchBatchSize caps the work of one run; leftovers wait for the next
// scheduler tick.
const DispatchBatchSize = 10

const (
	OutcomeSuccess      = "success"
	OutcomeFailedEmail  = "failed_email"
	OutcomeFailedUpdate = "failed_update"
)

type LeadOutcome struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type DispatchResult struct {
	Processed int           `json:"processed"`
	Details   []LeadOutcome `json:"details"`
}

// DispatchEmailsUseCase runs one email-dispatch pass: claim up to
// DispatchBatchSize unprocessed leads, send the notification pair for each,
// and mark a lead processed only when both sends succeeded. A lead left
// unprocessed is simply retried on a later run, so delivery is
// at-least-once: duplicates are possible, losses are not.
type DispatchEmailsUseCase struct {
	Repo         entity.LeadRepositoryInterface
	EmailService EmailService
}

func NewDispatchEmailsUseCase(repo entity.LeadRepositoryInterface, emailService EmailService) *DispatchEmailsUseCase {
	return &DispatchEmailsUseCase{
		Repo:         repo,
		EmailService: emailService,
	}
}

func (uc *DispatchEmailsUseCase) Execute(ctx context.Context) (*DispatchResult, error) {
	leads, err := uc.Repo.ClaimUnprocessed(ctx, DispatchBatchSize)
	if err != nil {
		log.Printf("claiming unprocessed leads failed: %v", err)
		return nil, &TechnicalError{
			Code:    CodeStorage,
			Message: "failed to fetch pending leads",
		}
	}

	result := &DispatchResult{Details: []LeadOutcome{}}

	// Leads run sequentially so the result order matches the claim order
	// and outbound SMTP connections stay bounded at two.
	for _, lead := range leads {
		outcome := uc.dispatchLead(ctx, lead)
		if outcome.Status == OutcomeSuccess {
			result.Processed++
		}
		result.Details = append(result.Details, outcome)
	}

	return result, nil
}

func (uc *DispatchEmailsUseCase) dispatchLead(ctx context.Context, lead *entity.Lead) LeadOutcome {
	var wg sync.WaitGroup
	var notifErr, ackErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		notifErr = uc.EmailService.SendLeadNotification(lead)
	}()
	go func() {
		defer wg.Done()
		ackErr = uc.EmailService.SendLeadAcknowledgment(lead)
	}()
	wg.Wait()

	if notifErr != nil || ackErr != nil {
		var reasons []string
		if notifErr != nil {
			log.Printf("notification email failed for lead %s: %v", lead.ID, notifErr)
			reasons = append(reasons, "notification: "+notifErr.Error())
		}
		if ackErr != nil {
			log.Printf("acknowledgment email failed for lead %s: %v", lead.ID, ackErr)
			reasons = append(reasons, "acknowledgment: "+ackErr.Error())
		}
		// Not marked processed: the next run retries this lead.
		return LeadOutcome{ID: lead.ID, Status: OutcomeFailedEmail, Error: strings.Join(reasons, "; ")}
	}

	if err := uc.Repo.MarkProcessed(ctx, lead.ID); err != nil {
		// Emails went out but the flag did not flip; the next run will
		// resend. Accepted semantics, reported distinctly.
		log.Printf("marking lead %s processed failed: %v", lead.ID, err)
		return LeadOutcome{ID: lead.ID, Status: OutcomeFailedUpdate, Error: err.Error()}
	}

	return LeadOutcome{ID: lead.ID, Status: OutcomeSuccess}
}
