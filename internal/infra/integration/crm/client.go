package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client pushes captured leads into the external CRM so the sales pipeline
// stays in sync without anyone re-typing form submissions.
type Client struct {
	apiToken string
	baseURL  string
	http     *http.Client
}

func NewClient(apiToken, baseURL string) *Client {
	return &Client{
		apiToken: apiToken,
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) IsConfigured() bool {
	return c.apiToken != "" && c.baseURL != ""
}

// CreateContact registers the lead as a CRM contact and returns its ID.
func (c *Client) CreateContact(ctx context.Context, input CreateContactInput) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("crm not configured")
	}

	payload := createContactRequest{
		Name:   input.Name,
		Email:  input.Email,
		Source: "booking_form",
		Tags:   []string{"website"},
		Attributes: map[string]string{
			"service": input.Service,
			"plan":    input.Plan,
			"message": input.Message,
		},
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal crm contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/contacts", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("crm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("crm returned status %d: %s", resp.StatusCode, string(body))
	}

	var response contactResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("crm decode: %w", err)
	}

	return response.ID, nil
}
