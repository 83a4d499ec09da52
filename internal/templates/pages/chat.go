package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/templates/layouts"
)

// ChatMessage is the view model for one bubble in the conversation. User
// messages carry plain text and are escaped on render; assistant messages
// carry sanitized HTML and are rendered as-is.
type ChatMessage struct {
	FromUser bool
	Text     string
	HTML     string
}

// ChatView is everything the chat page needs to render.
type ChatView struct {
	ConversationID string
	UserName       string
	Prefill        string
	Messages       []ChatMessage
}

// Chat renders the full conversation page.
func Chat(view ChatView) templ.Component {
	return layouts.Base("Chat with your Guide", chatContent(view))
}

func chatContent(view ChatView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="chat-page">
<div class="chat-header">
<h2>Your Morocco Guide</h2>
<p>Ask about destinations, food, culture, or anything Moroccan</p>
</div>
<div class="chat-messages" id="messages">
`); err != nil {
			return err
		}

		if len(view.Messages) == 0 {
			greeting := "Salam! Where in Morocco can I take you today?"
			if view.UserName != "" {
				greeting = fmt.Sprintf("Salam, %s! Where in Morocco can I take you today?", view.UserName)
			}
			if _, err := fmt.Fprintf(w, `<div class="chat-welcome"><p>%s</p></div>
`, templ.EscapeString(greeting)); err != nil {
				return err
			}
		}

		for _, msg := range view.Messages {
			if err := writeMessage(w, msg); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `</div>
<form class="chat-form" id="chat-form"
 hx-post="/chat/%s/message" hx-target="#messages" hx-swap="beforeend"
 hx-disabled-elt="#chat-input, #chat-send" hx-indicator="#chat-thinking">
<input type="hidden" name="csrf_token" value="%s">
<input type="text" id="chat-input" name="message" value="%s"
 placeholder="Ask me anything about Morocco..." autocomplete="off" autofocus>
<button type="submit" id="chat-send">Send</button>
</form>
<p class="chat-thinking" id="chat-thinking">Your guide is thinking&hellip;</p>
</div>
`, templ.EscapeString(view.ConversationID),
			templ.EscapeString(layouts.GetCSRFToken(ctx)),
			templ.EscapeString(view.Prefill)); err != nil {
			return err
		}

		return nil
	})
}

// Exchange renders one completed question/answer pair. The message endpoint
// returns this fragment and htmx appends it to the message list.
func Exchange(question ChatMessage, answer ChatMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeMessage(w, question); err != nil {
			return err
		}
		return writeMessage(w, answer)
	})
}

func writeMessage(w io.Writer, msg ChatMessage) error {
	if msg.FromUser {
		_, err := fmt.Fprintf(w, `<div class="message message-user"><p>%s</p></div>
`, templ.EscapeString(msg.Text))
		return err
	}
	// Assistant HTML comes pre-sanitized from the chat service.
	_, err := fmt.Fprintf(w, `<div class="message message-assistant">%s</div>
`, msg.HTML)
	return err
}
