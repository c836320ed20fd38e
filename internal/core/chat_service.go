package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

const (
	FallbackConnection = "I'm having trouble connecting to my brain (Gemini API). Please try again later."
	FallbackEmpty      = "I didn't catch that."
	FallbackError      = "Sorry, I encountered an error processing your request."
)

// CreateSession opens a conversation seeded with the system instruction.
func CreateSession(ctx context.Context, remote Remote, systemInstruction string) (Session, error) {
	session, err := remote.CreateSession(ctx, systemInstruction)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("failed to create chat session: remote returned no session")
	}
	return session, nil
}

// Send forwards text within session. A blank reply becomes FallbackEmpty.
func Send(ctx context.Context, session Session, text string) (string, error) {
	reply, err := session.Send(ctx, text)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackEmpty, nil
	}
	return reply, nil
}

// ChatService owns the single conversation of the chat widget. The session
// is created lazily; a failed creation is retried on the next message and a
// failed message keeps the session for later ones. SendMessage never
// returns an error: failures degrade to fixed fallback replies.
type ChatService struct {
	remote      Remote
	instruction string

	queue   ticketLock
	session Session
}

func NewChatService(remote Remote, systemInstruction string) *ChatService {
	return &ChatService{
		remote:      remote,
		instruction: systemInstruction,
	}
}

// SendMessage replies to text. Concurrent callers are served one at a time
// in arrival order.
func (s *ChatService) SendMessage(ctx context.Context, text string) string {
	release := s.queue.acquire()
	defer release()

	if s.session == nil {
		session, err := CreateSession(ctx, s.remote, s.instruction)
		if err != nil {
			log.Printf("Failed to initialize Gemini chat: %v", err)
			return FallbackConnection
		}
		s.session = session
	}

	reply, err := Send(ctx, s.session, text)
	if err != nil {
		log.Printf("Gemini API error: %v", err)
		return FallbackError
	}
	return reply
}

// HasSession reports whether a conversation has been established.
func (s *ChatService) HasSession() bool {
	release := s.queue.acquire()
	defer release()
	return s.session != nil
}

// ticketLock is a mutex that admits waiters in the order they arrived.
type ticketLock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	next    uint64
	serving uint64
}

func (l *ticketLock) acquire() (release func()) {
	l.mu.Lock()
	if l.cond == nil {
		l.cond = sync.NewCond(&l.mu)
	}
	ticket := l.next
	l.next++
	for ticket != l.serving {
		l.cond.Wait()
	}
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		l.serving++
		l.cond.Broadcast()
		l.mu.Unlock()
	}
}
