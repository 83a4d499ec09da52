// Package chat runs the conversation loop between a traveler and the
// tour-guide API. Conversations live in memory for the lifetime of one chat
// view; durable history is the upstream's job via /api/saveConversation.
package chat

import "time"

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one bubble in a conversation. Text is the raw content; HTML is
// the sanitized render form, set only for assistant messages.
type Message struct {
	Sender Sender
	Text   string
	HTML   string
	SentAt time.Time
}
