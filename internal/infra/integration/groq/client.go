package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to an OpenAI-compatible chat-completions API (Groq in
// production). Streaming responses have no fixed duration, so the overall
// deadline comes from the request context, not the http.Client.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{},
	}
}

// UpstreamError is a non-2xx answer from the completions API. Status and
// body are kept for the server-side log; callers surface a generic message.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

// CreateCompletionStream requests an incremental completion and returns a
// reader of plain text: the SSE envelope is stripped off, only the content
// deltas come through. The caller must Close the reader.
func (c *Client) CreateCompletionStream(ctx context.Context, messages []Message) (io.ReadCloser, error) {
	payload := completionRequest{
		Model:       c.model,
		Messages:    messages,
		Stream:      true,
		Temperature: 0.6,
		MaxTokens:   1024,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	return newStreamReader(resp.Body), nil
}
