package chat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/guide"
	"github.com/ESSAFI01/Morocco-Tour-Guide/internal/sanitize"
)

// fallbackAnswer is shown in place of an assistant reply when the upstream
// call fails for any reason. The traveler's question stays in the transcript.
const fallbackAnswer = "Sorry, I encountered an error. Please try again later."

// saveTimeout bounds the detached goroutine that persists an exchange
// upstream after the response has already been sent.
const saveTimeout = 30 * time.Second

// Conversations are dropped after this much inactivity. A stale chat page
// posting into a swept conversation is redirected to a fresh one.
const (
	conversationTTL = 2 * time.Hour
	sweepInterval   = 10 * time.Minute
)

var (
	// ErrEmptyMessage is returned for blank or whitespace-only submissions.
	// Nothing is appended and nothing is sent upstream.
	ErrEmptyMessage = errors.New("empty message")

	// ErrBusy is returned when an exchange is already in flight for the
	// conversation. At most one question may be outstanding at a time.
	ErrBusy = errors.New("exchange already in flight")

	// ErrNotFound is returned for unknown or foreign conversation IDs.
	ErrNotFound = errors.New("conversation not found")
)

// Conversation is one traveler's in-memory transcript. All access goes
// through the service.
type Conversation struct {
	ID string

	mu         sync.Mutex
	owner      string
	pending    bool
	messages   []Message
	lastActive time.Time
}

// Messages returns a snapshot of the transcript for rendering.
func (conv *Conversation) Messages() []Message {
	conv.mu.Lock()
	defer conv.mu.Unlock()
	out := make([]Message, len(conv.messages))
	copy(out, conv.messages)
	return out
}

// Service owns the conversation registry and drives exchanges against the
// tour-guide API.
type Service struct {
	api    guide.API
	logger *slog.Logger

	mu            sync.Mutex
	conversations map[string]*Conversation
}

// NewService creates the chat service and starts the background sweep of
// idle conversations.
func NewService(api guide.API, logger *slog.Logger) *Service {
	s := &Service{
		api:           api,
		logger:        logger.With("plugin", "chat"),
		conversations: make(map[string]*Conversation),
	}
	go s.sweep()
	return s
}

// Create registers a fresh conversation for the given owner and returns it.
// Owner is the traveler's profile ID; it scopes Get so one traveler cannot
// post into another's transcript.
func (s *Service) Create(owner string) *Conversation {
	conv := &Conversation{
		ID:         newConversationID(),
		owner:      owner,
		lastActive: time.Now(),
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.mu.Unlock()

	return conv
}

// Get looks up a conversation by ID, checking ownership.
func (s *Service) Get(id, owner string) (*Conversation, error) {
	s.mu.Lock()
	conv, ok := s.conversations[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	if conv.owner != owner {
		return nil, ErrNotFound
	}

	return conv, nil
}

// Submit runs one exchange: append the traveler's question, ask the
// upstream, append the answer (or the fallback when the upstream fails), and
// persist the pair in the background. The question is appended before the
// upstream is consulted and stays in the transcript no matter what.
//
// Returns the question and answer messages for fragment rendering.
func (s *Service) Submit(ctx context.Context, conv *Conversation, token, text string) (Message, Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, Message{}, ErrEmptyMessage
	}

	question := Message{Sender: SenderUser, Text: text, SentAt: time.Now()}

	conv.mu.Lock()
	if conv.pending {
		conv.mu.Unlock()
		return Message{}, Message{}, ErrBusy
	}
	conv.pending = true
	conv.lastActive = question.SentAt
	conv.messages = append(conv.messages, question)
	conv.mu.Unlock()

	defer func() {
		conv.mu.Lock()
		conv.pending = false
		conv.mu.Unlock()
	}()

	answerText, err := s.api.Ask(ctx, token, text)
	if err != nil {
		s.logger.Warn("ask failed", "conversation", conv.ID, "error", err)
		answerText = fallbackAnswer
	}

	answer := Message{
		Sender: SenderAssistant,
		Text:   answerText,
		HTML:   sanitize.Answer(answerText),
		SentAt: time.Now(),
	}

	conv.mu.Lock()
	conv.messages = append(conv.messages, answer)
	conv.lastActive = answer.SentAt
	conv.mu.Unlock()

	// Only real answers are worth persisting, and never on the request's
	// clock: the traveler already has their reply.
	if err == nil {
		go s.save(context.WithoutCancel(ctx), conv.ID, token, text, answerText)
	}

	return question, answer, nil
}

// save persists one exchange upstream, best effort.
func (s *Service) save(ctx context.Context, convID, token, query, response string) {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	if err := s.api.SaveConversation(ctx, token, query, response); err != nil {
		s.logger.Warn("saving exchange failed", "conversation", convID, "error", err)
	}
}

// sweep periodically drops conversations idle past the TTL.
func (s *Service) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-conversationTTL)

		s.mu.Lock()
		for id, conv := range s.conversations {
			conv.mu.Lock()
			idle := conv.lastActive.Before(cutoff) && !conv.pending
			conv.mu.Unlock()
			if idle {
				delete(s.conversations, id)
			}
		}
		s.mu.Unlock()
	}
}

// newConversationID returns a 128-bit random hex ID.
func newConversationID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
