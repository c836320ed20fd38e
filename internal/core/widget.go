package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nethmitharushika56/portfolio/internal/store"
)

const Greeting = "Hi! I'm the AI assistant here. Ask me anything about the developer's skills or projects."

// replyTimeout bounds one background round trip to the model.
const replyTimeout = 60 * time.Second

// HistoryWindow is how many of the newest messages the panel shows.
const HistoryWindow = 100

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessagePending = errors.New("a reply is already pending")
	ErrUnmounted      = errors.New("chat widget is unmounted")
)

// Responder produces the assistant's reply to a visitor message.
type Responder interface {
	SendMessage(ctx context.Context, text string) string
}

// Transcript is the append-only message log backing the widget.
type Transcript interface {
	CreateMessage(msg *store.Message) error
	GetMessages(limit int, offset int) ([]store.Message, error)
	GetLastNMessages(n int) ([]store.Message, error)
	CountMessages() (int, error)
}

// WidgetState is a snapshot of the chat panel.
type WidgetState struct {
	Open     bool            `json:"open"`
	Pending  bool            `json:"pending"`
	Messages []store.Message `json:"messages"`
}

// ChatWidget is the floating chat panel. Submissions are appended to the
// transcript immediately and the reply is fetched in the background; while a
// reply is pending further submissions are rejected.
type ChatWidget struct {
	responder  Responder
	transcript Transcript

	mu       sync.Mutex
	open     bool
	pending  bool
	mounted  bool
	onChange []func(WidgetState)

	// notifyMu keeps listener deliveries in the order their snapshots
	// were taken.
	notifyMu sync.Mutex

	wg sync.WaitGroup
}

// NewChatWidget seeds the transcript with the greeting. The panel starts
// closed.
func NewChatWidget(responder Responder, transcript Transcript) (*ChatWidget, error) {
	greeting := store.Message{Role: store.RoleModel, Text: Greeting}
	if err := transcript.CreateMessage(&greeting); err != nil {
		return nil, fmt.Errorf("failed to seed chat transcript: %w", err)
	}
	return &ChatWidget{
		responder:  responder,
		transcript: transcript,
		mounted:    true,
	}, nil
}

// OnChange registers fn to receive the widget state after every change.
func (w *ChatWidget) OnChange(fn func(WidgetState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

func (w *ChatWidget) Open()  { w.setOpen(true) }
func (w *ChatWidget) Close() { w.setOpen(false) }

// Toggle flips the panel and returns the new visibility.
func (w *ChatWidget) Toggle() bool {
	w.mu.Lock()
	w.open = !w.open
	open := w.open
	w.mu.Unlock()
	w.notify()
	return open
}

func (w *ChatWidget) setOpen(open bool) {
	w.mu.Lock()
	changed := w.open != open
	w.open = open
	w.mu.Unlock()
	if changed {
		w.notify()
	}
}

// Submit records a visitor message and requests the reply in the
// background. The returned message is the stored visitor entry.
func (w *ChatWidget) Submit(ctx context.Context, text string) (store.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.Message{}, ErrEmptyMessage
	}

	w.mu.Lock()
	if !w.mounted {
		w.mu.Unlock()
		return store.Message{}, ErrUnmounted
	}
	if w.pending {
		w.mu.Unlock()
		return store.Message{}, ErrMessagePending
	}
	msg := store.Message{Role: store.RoleUser, Text: text}
	if err := w.transcript.CreateMessage(&msg); err != nil {
		w.mu.Unlock()
		return store.Message{}, fmt.Errorf("failed to store message: %w", err)
	}
	w.pending = true
	w.wg.Add(1)
	w.mu.Unlock()
	w.notify()

	// The reply outlives the request that triggered it.
	replyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), replyTimeout)
	go func() {
		defer w.wg.Done()
		defer cancel()
		reply := w.responder.SendMessage(replyCtx, text)
		w.finish(reply)
	}()

	return msg, nil
}

func (w *ChatWidget) finish(reply string) {
	w.mu.Lock()
	w.pending = false
	if !w.mounted {
		w.mu.Unlock()
		log.Println("Chat widget unmounted; discarding late reply.")
		return
	}
	msg := store.Message{Role: store.RoleModel, Text: reply}
	if err := w.transcript.CreateMessage(&msg); err != nil {
		log.Printf("Error storing model reply: %v", err)
	}
	w.mu.Unlock()
	w.notify()
}

// Unmount detaches the widget. Replies that arrive afterwards are dropped
// and no further notifications are sent.
func (w *ChatWidget) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mounted = false
	w.onChange = nil
}

// Wait blocks until every in-flight reply has completed.
func (w *ChatWidget) Wait() {
	w.wg.Wait()
}

func (w *ChatWidget) State() (WidgetState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

// History pages through the full transcript, oldest first.
func (w *ChatWidget) History(limit, offset int) ([]store.Message, error) {
	msgs, err := w.transcript.GetMessages(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return msgs, nil
}

// MessageCount is the number of messages in the transcript.
func (w *ChatWidget) MessageCount() (int, error) {
	return w.transcript.CountMessages()
}

func (w *ChatWidget) stateLocked() (WidgetState, error) {
	msgs, err := w.transcript.GetLastNMessages(HistoryWindow)
	if err != nil {
		return WidgetState{}, fmt.Errorf("failed to load chat transcript: %w", err)
	}
	return WidgetState{Open: w.open, Pending: w.pending, Messages: msgs}, nil
}

// notify must not be called from a listener.
func (w *ChatWidget) notify() {
	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()

	w.mu.Lock()
	if !w.mounted || len(w.onChange) == 0 {
		w.mu.Unlock()
		return
	}
	state, err := w.stateLocked()
	listeners := append([]func(WidgetState){}, w.onChange...)
	w.mu.Unlock()

	if err != nil {
		log.Printf("Error building chat state: %v", err)
		return
	}
	for _, fn := range listeners {
		fn(state)
	}
}
