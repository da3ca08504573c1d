package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation. Nothing is persisted: the
// widget resends the whole history on every request.
type ChatMessage struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

func (m *ChatMessage) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
	default:
		return fmt.Errorf("invalid role %q", m.Role)
	}
	if m.Content.Text() == "" {
		return errors.New("content is required")
	}
	return nil
}

// MessageContent is the union the widget may send: either a plain string
// or a multi-part array of {type,text} blocks. The shape is validated once
// here, on ingress; everything downstream sees plain text.
type MessageContent struct {
	text string
}

func TextContent(s string) MessageContent {
	return MessageContent{text: s}
}

// Text returns the concatenation of all textual parts.
func (c MessageContent) Text() string {
	return c.text
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.text)
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.text = s
		return nil
	}

	var parts []contentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return errors.New("content must be a string or an array of text parts")
	}

	var b strings.Builder
	for _, p := range parts {
		if p.Type != "" && p.Type != "text" {
			continue
		}
		b.WriteString(p.Text)
	}
	c.text = b.String()
	return nil
}
