package groq

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCompletionStreamSuccess(t *testing.T) {
	var gotAuth string
	var gotBody completionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hi \"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"there\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "llama-3.3-70b-versatile")

	stream, err := client.CreateCompletionStream(context.Background(), []Message{
		{Role: "user", Content: "hello"},
	})

	assert.NoError(t, err)
	defer stream.Close()

	out, err := io.ReadAll(stream)
	assert.NoError(t, err)
	assert.Equal(t, "Hi there", string(out))

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.True(t, gotBody.Stream)
	assert.Equal(t, "llama-3.3-70b-versatile", gotBody.Model)
}

func TestCreateCompletionStreamUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "llama-3.3-70b-versatile")

	stream, err := client.CreateCompletionStream(context.Background(), []Message{
		{Role: "user", Content: "hello"},
	})

	assert.Nil(t, stream)

	var upstreamErr *UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusTooManyRequests, upstreamErr.Status)
	assert.Contains(t, upstreamErr.Body, "rate limited")
}
