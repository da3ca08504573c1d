package entity

import (
	"context"
	"encoding/json"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead is a prospective-client record captured by the booking form.
// Its processed flag only ever moves from false to true, once, after
// both notification emails for it have gone out.
type Lead struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Service   *string         `json:"service"`
	Plan      *string         `json:"plan"`
	Message   string          `json:"message"`
	UTM       json.RawMessage `json:"utm"`
	Processed bool            `json:"processed"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Factory
func NewLead(name, email, message string, service, plan *string, utm json.RawMessage) (*Lead, error) {
	lead := &Lead{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Service:   normalizeOptional(service),
		Plan:      normalizeOptional(plan),
		Message:   strings.TrimSpace(message),
		UTM:       normalizeUTM(utm),
		Processed: false,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(l.Email); err != nil {
		return errors.New("email is invalid")
	}
	if l.Message == "" {
		return errors.New("message is required")
	}
	return nil
}

// normalizeOptional coerces empty or whitespace-only optional fields to nil
// so they land as NULL in the store.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// The UTM blob is opaque attribution data; "null", "{}" and empty all mean absent.
func normalizeUTM(utm json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(utm))
	if trimmed == "" || trimmed == "null" || trimmed == "{}" {
		return nil
	}
	return utm
}

type LeadRepositoryInterface interface {
	Insert(ctx context.Context, lead *Lead) error

	// ClaimUnprocessed atomically claims up to limit unprocessed leads for
	// this dispatch run, so concurrent runs never pick the same rows.
	ClaimUnprocessed(ctx context.Context, limit int) ([]*Lead, error)

	// MarkProcessed flips the processed flag. Rows already processed are
	// left untouched; the transition is one-way.
	MarkProcessed(ctx context.Context, id string) error
}
