package usecase

import (
	"context"
	"io"

	"github.com/elevenxsolutions/elevenx-api/internal/entity"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/integration/groq"
)

// systemPrompt pins the assistant's persona and ships the static product
// knowledge the widget answers from. No server-side session: the widget
// resends the history and we prepend this on every request.
const systemPrompt = `You are Ellie, the assistant on the ElevenX Solutions website.
ElevenX Solutions is a digital agency offering web development, SaaS engineering,
SEO and UI/UX design.

Tone rules:
- Be friendly and concise. Two or three sentences per answer.
- Never invent services or prices that are not listed below.
- If asked something unrelated to ElevenX, steer the conversation back politely.
- When a visitor seems ready to start a project, point them to the booking form.

Services and pricing:
- Web Development: custom marketing sites and web apps. Starter from $1,900,
  Business from $4,900, Enterprise by quote.
- SaaS Engineering: product build-out and scaling. From $7,500 per milestone.
- SEO: audits, content strategy, technical SEO. Monthly retainers from $900.
- UI/UX Design: research, wireframes, design systems. From $2,400 per project.
- Every engagement starts with a free 30-minute discovery call, bookable on the site.`

// ChatStreamUseCase normalizes the submitted history, prepends the fixed
// system prompt and returns the upstream completion as a plain-text stream.
type ChatStreamUseCase struct {
	Streamer CompletionStreamer
}

func NewChatStreamUseCase(streamer CompletionStreamer) *ChatStreamUseCase {
	return &ChatStreamUseCase{Streamer: streamer}
}

func (uc *ChatStreamUseCase) Execute(ctx context.Context, messages []entity.ChatMessage) (io.ReadCloser, error) {
	if len(messages) == 0 {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "messages must not be empty",
		}
	}

	upstream := make([]groq.Message, 0, len(messages)+1)
	upstream = append(upstream, groq.Message{
		Role:    entity.RoleSystem,
		Content: systemPrompt,
	})

	for _, m := range messages {
		if err := m.Validate(); err != nil {
			return nil, &DomainError{
				Code:    CodeValidation,
				Message: err.Error(),
			}
		}
		// Client-sent system messages are dropped; only ours counts.
		if m.Role == entity.RoleSystem {
			continue
		}
		upstream = append(upstream, groq.Message{
			Role:    m.Role,
			Content: m.Content.Text(),
		})
	}

	return uc.Streamer.CreateCompletionStream(ctx, upstream)
}
