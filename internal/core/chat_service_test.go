package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nethmitharushika56/portfolio/internal/content"
)

type fakeSession struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	got     []string

	inflight    atomic.Int32
	maxInflight atomic.Int32
	delay       time.Duration
}

func (s *fakeSession) Send(ctx context.Context, text string) (string, error) {
	n := s.inflight.Add(1)
	defer s.inflight.Add(-1)
	for {
		peak := s.maxInflight.Load()
		if n <= peak || s.maxInflight.CompareAndSwap(peak, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, text)
	var reply string
	var err error
	if len(s.replies) > 0 {
		reply, s.replies = s.replies[0], s.replies[1:]
	}
	if len(s.errs) > 0 {
		err, s.errs = s.errs[0], s.errs[1:]
	}
	return reply, err
}

type fakeRemote struct {
	mu           sync.Mutex
	session      Session
	createErrs   []error
	creates      int
	instructions []string
}

func (r *fakeRemote) CreateSession(ctx context.Context, systemInstruction string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	r.instructions = append(r.instructions, systemInstruction)
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return r.session, nil
}

func TestSendMessageWithoutCredentials(t *testing.T) {
	svc := NewChatService(NewGeminiRemote("", ""), "instruction")

	if got := svc.SendMessage(context.Background(), "hello"); got != FallbackConnection {
		t.Errorf("expected connection fallback, got %q", got)
	}
	if svc.HasSession() {
		t.Error("no session should exist without credentials")
	}
}

func TestGeminiRemoteRequiresKey(t *testing.T) {
	_, err := NewGeminiRemote("", "").CreateSession(context.Background(), "x")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestSessionIsCreatedLazilyAndRetried(t *testing.T) {
	session := &fakeSession{replies: []string{"first answer"}}
	remote := &fakeRemote{
		session:    session,
		createErrs: []error{errors.New("unreachable")},
	}
	svc := NewChatService(remote, "be helpful")

	if remote.creates != 0 {
		t.Fatalf("session created before the first message")
	}
	if got := svc.SendMessage(context.Background(), "hi"); got != FallbackConnection {
		t.Errorf("expected connection fallback, got %q", got)
	}
	if got := svc.SendMessage(context.Background(), "hi again"); got != "first answer" {
		t.Errorf("expected the remote reply, got %q", got)
	}
	if remote.creates != 2 {
		t.Errorf("expected creation to be retried once, got %d attempts", remote.creates)
	}
	if remote.instructions[1] != "be helpful" {
		t.Errorf("session created with wrong instruction %q", remote.instructions[1])
	}
}

func TestSessionSurvivesFailedSend(t *testing.T) {
	session := &fakeSession{
		replies: []string{"", "second"},
		errs:    []error{errors.New("boom"), nil},
	}
	remote := &fakeRemote{session: session}
	svc := NewChatService(remote, "x")

	if got := svc.SendMessage(context.Background(), "one"); got != FallbackError {
		t.Errorf("expected error fallback, got %q", got)
	}
	if got := svc.SendMessage(context.Background(), "two"); got != "second" {
		t.Errorf("expected reply on the same session, got %q", got)
	}
	if remote.creates != 1 {
		t.Errorf("expected one session, got %d", remote.creates)
	}
	if len(session.got) != 2 || session.got[1] != "two" {
		t.Errorf("unexpected messages sent %v", session.got)
	}
}

func TestBlankReplyFallsBack(t *testing.T) {
	for _, reply := range []string{"", "   ", "\n"} {
		svc := NewChatService(&fakeRemote{session: &fakeSession{replies: []string{reply}}}, "x")
		if got := svc.SendMessage(context.Background(), "q"); got != FallbackEmpty {
			t.Errorf("reply %q: expected empty fallback, got %q", reply, got)
		}
	}
}

func TestCreateSessionRejectsNilSession(t *testing.T) {
	if _, err := CreateSession(context.Background(), &fakeRemote{}, "x"); err == nil {
		t.Error("expected an error when the remote returns no session")
	}
}

func TestConcurrentSendsAreSerialized(t *testing.T) {
	session := &fakeSession{delay: 5 * time.Millisecond}
	for i := 0; i < 8; i++ {
		session.replies = append(session.replies, fmt.Sprintf("r%d", i))
	}
	remote := &fakeRemote{session: session}
	svc := NewChatService(remote, "x")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.SendMessage(context.Background(), fmt.Sprintf("m%d", i))
		}(i)
	}
	wg.Wait()

	if peak := session.maxInflight.Load(); peak != 1 {
		t.Errorf("expected one send at a time, saw %d", peak)
	}
	if remote.creates != 1 {
		t.Errorf("expected a single session, got %d", remote.creates)
	}
	if len(session.got) != 8 {
		t.Errorf("expected 8 sends, got %d", len(session.got))
	}
}

func TestTicketLockIsFIFO(t *testing.T) {
	var l ticketLock
	release := l.acquire()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := l.acquire()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			r()
		}(i)
		// Let each waiter take its ticket before the next arrives.
		for {
			l.mu.Lock()
			taken := l.next == uint64(i+2)
			l.mu.Unlock()
			if taken {
				break
			}
			time.Sleep(time.Millisecond)
		}
	}
	release()
	wg.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("waiters served out of order: %v", order)
		}
	}
}

func TestBuildSystemInstruction(t *testing.T) {
	reg, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	got := BuildSystemInstruction(reg)

	wants := []string{
		reg.Profile.Name,
		reg.Profile.Title,
		reg.Profile.Email,
		"under 50 words",
		"Do not hallucinate fake contact info",
		"professional life",
	}
	for _, s := range reg.Skills {
		wants = append(wants, fmt.Sprintf("%s (%s)", s.Name, s.Category))
	}
	for _, p := range reg.Projects {
		wants = append(wants, p.Title)
	}
	for _, c := range reg.Certifications {
		wants = append(wants, c.Name)
	}
	for _, v := range reg.Volunteering {
		wants = append(wants, v.Organization)
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("instruction is missing %q", w)
		}
	}
}
