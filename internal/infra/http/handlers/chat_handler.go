package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/elevenxsolutions/elevenx-api/internal/entity"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/http/middleware"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/integration/groq"
	"github.com/elevenxsolutions/elevenx-api/internal/usecase"
)

// ChatHandler streams assistant tokens to the widget as plain text. One
// wall-clock cap bounds the whole request; there is no per-token timeout.
type ChatHandler struct {
	ChatUC  *usecase.ChatStreamUseCase
	Timeout time.Duration
}

func NewChatHandler(uc *usecase.ChatStreamUseCase, timeout time.Duration) *ChatHandler {
	return &ChatHandler{
		ChatUC:  uc,
		Timeout: timeout,
	}
}

type chatRequest struct {
	Messages []entity.ChatMessage `json:"messages"`
}

func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Also rejects content values that are neither string nor parts.
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	stream, err := h.ChatUC.Execute(ctx, req.Messages)
	if err != nil {
		middleware.RecordChatStream("failed")
		switch e := err.(type) {
		case *usecase.DomainError:
			writeErrorResponse(w, http.StatusBadRequest, e.Code, e.Message)
		case *groq.UpstreamError:
			log.Printf("chat upstream error: status=%d body=%s", e.Status, e.Body)
			middleware.RecordIntegrationError("groq")
			writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeUpstream, "assistant is unavailable right now")
		default:
			log.Printf("chat request failed: %v", err)
			writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeUpstream, "assistant is unavailable right now")
		}
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 1024)
	for {
		n, readErr := stream.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				// Consumer went away; stop pulling so the upstream body is
				// released by the deferred Close.
				middleware.RecordChatStream("disconnected")
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			middleware.RecordChatStream("completed")
			return
		}
		if readErr != nil {
			log.Printf("chat stream aborted: %v", readErr)
			middleware.RecordChatStream("aborted")
			return
		}
	}
}
