// Package chat maintains the follow-up conversation about the active sample.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/taxonomiaia/taxocli/internal/api"
	"github.com/taxonomiaia/taxocli/internal/session"
)

// Role tags a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role Role
	Text string
}

// Chatter is the subset of the API client the session needs.
type Chatter interface {
	PostChat(ctx context.Context, sampleID, question string) (string, error)
}

// View receives transcript updates as they happen. TypingOn marks the
// transient placeholder shown while a question is outstanding; it is always
// balanced by TypingOff before the next message appears.
type View interface {
	Message(m Message)
	TypingOn()
	TypingOff()
}

// Session binds user questions to whichever sample is active at send time
// and keeps the append-only transcript. Sends are serialized: one exchange
// completes, placeholder removed, before the next send may begin.
type Session struct {
	mu         sync.Mutex
	client     Chatter
	active     *session.ActiveSample
	view       View
	transcript []Message
}

// NewSession creates a chat session bound to the shared active sample.
func NewSession(client Chatter, active *session.ActiveSample, view View) *Session {
	return &Session{client: client, active: active, view: view}
}

// Send submits one question. Blank input is ignored. The user message is
// appended optimistically; if no sample is active the session answers with a
// local notice and performs no network call. All failures surface as
// assistant notices, never as errors.
func (s *Session) Send(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.append(Message{Role: RoleUser, Text: text})

	sampleID, ok := s.active.Get()
	if !ok {
		s.append(Message{Role: RoleAssistant, Text: "No sample is available yet. Submit or look up a sample first."})
		return
	}

	s.view.TypingOn()
	answer, err := s.client.PostChat(ctx, sampleID, text)
	s.view.TypingOff()

	if err != nil {
		s.append(Message{Role: RoleAssistant, Text: api.UserMessage(err)})
		return
	}
	s.append(Message{Role: RoleAssistant, Text: answer})
}

func (s *Session) append(m Message) {
	s.transcript = append(s.transcript, m)
	s.view.Message(m)
}

// Transcript returns a copy of the messages exchanged so far.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}
