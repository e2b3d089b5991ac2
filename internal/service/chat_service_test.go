package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"careerbot/internal/domain"
	"careerbot/internal/llm"
)

type mockSessionRepo struct {
	mu         sync.Mutex
	sessions   map[string]domain.ChatSession
	upserts    int
	upsertErr  error
	ensureErr  error
	summaries  []domain.SessionSummary
	lastFilter *string
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]domain.ChatSession)}
}

func (m *mockSessionRepo) Upsert(_ context.Context, session domain.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) EnsureExists(_ context.Context, sessionID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ensureErr != nil {
		return m.ensureErr
	}
	if _, ok := m.sessions[sessionID]; !ok {
		m.sessions[sessionID] = domain.ChatSession{SessionID: sessionID, Title: title}
	}
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, sessionID string) (domain.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return domain.ChatSession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *mockSessionRepo) ListSummaries(_ context.Context, userID *string) ([]domain.SessionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = userID
	return m.summaries, nil
}

type mockMessageRepo struct {
	mu        sync.Mutex
	msgs      []domain.ChatMessage
	appendErr error
	recentErr error
}

func (m *mockMessageRepo) Append(_ context.Context, message domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	message.ID = int64(len(m.msgs) + 1)
	m.msgs = append(m.msgs, message)
	return nil
}

func (m *mockMessageRepo) ListRecent(_ context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	var out []domain.ChatMessage
	for i := len(m.msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.msgs[i].SessionID == sessionID {
			out = append(out, m.msgs[i])
		}
	}
	return out, nil
}

func (m *mockMessageRepo) ListBySession(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ChatMessage
	for _, msg := range m.msgs {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		message string
		expect  string
	}{
		{"I want a tech job", "Career Guidance on Tech"},
		{"thinking about my career path", "Career Guidance on Career"},
		{"Nataka TECH opportunities", "Career Guidance on Tech"},
		{"what skills do I need?", "Career Guidance on Skills"},
		{"niaje msee", "Untitled Chat"},
		{"", "Untitled Chat"},
	}

	for _, tc := range cases {
		if got := DeriveTitle(tc.message); got != tc.expect {
			t.Fatalf("DeriveTitle(%q)=%q want %q", tc.message, got, tc.expect)
		}
	}
}

func TestBuildMessagesOrdering(t *testing.T) {
	history := []domain.ChatMessage{
		{UserMessage: "first question", BotResponse: "first answer"},
		{UserMessage: "second question", BotResponse: "second answer"},
	}
	messages := BuildMessages(history, "newest")

	if len(messages) != 8 {
		t.Fatalf("expected 8 messages, got %d", len(messages))
	}
	if messages[0].Role != llm.RoleSystem || messages[0].Content != systemPersona {
		t.Fatalf("expected system persona first, got %+v", messages[0])
	}
	if messages[1].Content != fewShotUserTurn || messages[2].Content != fewShotAssistantTurn {
		t.Fatalf("expected few-shot pair after persona")
	}
	if messages[3].Content != "first question" || messages[4].Content != "first answer" {
		t.Fatalf("expected oldest exchange first, got %+v %+v", messages[3], messages[4])
	}
	if messages[3].Role != llm.RoleUser || messages[4].Role != llm.RoleAssistant {
		t.Fatalf("expected history rows expanded to user+assistant turns")
	}
	if messages[7].Role != llm.RoleUser || messages[7].Content != "newest" {
		t.Fatalf("expected new message last, got %+v", messages[7])
	}
}

func TestChatServiceChat_NewSessionPersistsExchange(t *testing.T) {
	sessions := newMockSessionRepo()
	messages := &mockMessageRepo{}
	client := &llm.MockClient{Response: "Poa sana! Tuanze."}
	svc := NewChatService(zap.NewNop(), client, sessions, messages)

	result, err := svc.Chat(context.Background(), ChatInput{Message: "I want a tech job"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.SessionID == "" {
		t.Fatalf("expected generated session id")
	}
	if result.Reply != "Poa sana! Tuanze." {
		t.Fatalf("unexpected reply %q", result.Reply)
	}

	session, ok := sessions.sessions[result.SessionID]
	if !ok {
		t.Fatalf("expected session upserted before append")
	}
	if session.Title != "Career Guidance on Tech" {
		t.Fatalf("expected derived title, got %q", session.Title)
	}
	if len(messages.msgs) != 1 {
		t.Fatalf("expected exchange persisted, got %d rows", len(messages.msgs))
	}
	if messages.msgs[0].UserMessage != "I want a tech job" || messages.msgs[0].BotResponse != result.Reply {
		t.Fatalf("unexpected persisted exchange %+v", messages.msgs[0])
	}
}

func TestChatServiceChat_ExplicitTitleWins(t *testing.T) {
	sessions := newMockSessionRepo()
	messages := &mockMessageRepo{}
	client := &llm.MockClient{Response: "ok"}
	svc := NewChatService(zap.NewNop(), client, sessions, messages)

	result, err := svc.Chat(context.Background(), ChatInput{
		Message:   "tell me about tech",
		SessionID: "s1",
		Title:     "My Custom Title",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.SessionID != "s1" {
		t.Fatalf("expected session id preserved, got %q", result.SessionID)
	}
	if got := sessions.sessions["s1"].Title; got != "My Custom Title" {
		t.Fatalf("expected explicit title kept, got %q", got)
	}
}

func TestChatServiceChat_HistoryReplayedOldestFirst(t *testing.T) {
	sessions := newMockSessionRepo()
	messages := &mockMessageRepo{msgs: []domain.ChatMessage{
		{SessionID: "s1", UserMessage: "q1", BotResponse: "a1", CreatedAt: time.Now().UTC()},
		{SessionID: "s1", UserMessage: "q2", BotResponse: "a2", CreatedAt: time.Now().UTC()},
	}}
	client := &llm.MockClient{Response: "reply"}
	svc := NewChatService(zap.NewNop(), client, sessions, messages)

	if _, err := svc.Chat(context.Background(), ChatInput{Message: "q3", SessionID: "s1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// persona + few-shot + 2 intercambios + mensaje nuevo
	thread := client.LastMessages
	if len(thread) != 8 {
		t.Fatalf("expected 8 turns, got %d", len(thread))
	}
	if thread[3].Content != "q1" || thread[5].Content != "q2" {
		t.Fatalf("expected history oldest-first, got %q then %q", thread[3].Content, thread[5].Content)
	}
	if thread[7].Content != "q3" {
		t.Fatalf("expected new message last, got %q", thread[7].Content)
	}
}

func TestChatServiceChat_FallbackReplyOnLLMFailure(t *testing.T) {
	sessions := newMockSessionRepo()
	messages := &mockMessageRepo{}
	client := &llm.MockClient{Err: errors.New("upstream down")}
	svc := NewChatService(zap.NewNop(), client, sessions, messages)

	result, err := svc.Chat(context.Background(), ChatInput{Message: "hello"})
	if err != nil {
		t.Fatalf("expected fallback instead of error, got %v", err)
	}
	if result.Reply != chatFallbackReply {
		t.Fatalf("expected fallback reply, got %q", result.Reply)
	}
	if len(messages.msgs) != 1 || messages.msgs[0].BotResponse != chatFallbackReply {
		t.Fatalf("expected fallback persisted like any reply")
	}
}

func TestChatServiceChat_BlankReplyUsesFallback(t *testing.T) {
	sessions := newMockSessionRepo()
	messages := &mockMessageRepo{}
	client := &llm.MockClient{Response: "   "}
	svc := NewChatService(zap.NewNop(), client, sessions, messages)

	result, err := svc.Chat(context.Background(), ChatInput{Message: "hello"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Reply != chatFallbackReply {
		t.Fatalf("expected fallback for blank reply, got %q", result.Reply)
	}
}

func TestChatServiceChat_ConcurrentWritersLastWriterWins(t *testing.T) {
	sessions := newMockSessionRepo()
	messages := &mockMessageRepo{}
	client := &llm.MockClient{Response: "Poa!"}
	svc := NewChatService(zap.NewNop(), client, sessions, messages)

	const writers = 8
	titles := make(map[string]bool, writers)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		title := fmt.Sprintf("Writer %d", i)
		titles[title] = true
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			_, errs[i] = svc.Chat(context.Background(), ChatInput{
				SessionID: "shared-session",
				Message:   "niaje",
				Title:     title,
			})
		}(i, title)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("writer %d failed: %v", i, err)
		}
	}
	if sessions.upserts != writers {
		t.Fatalf("expected %d upserts, got %d", writers, sessions.upserts)
	}

	// La fila sobreviviente es la de algún escritor; no hay merge ni corrupción.
	survivor, ok := sessions.sessions["shared-session"]
	if !ok {
		t.Fatal("shared session missing after concurrent writes")
	}
	if !titles[survivor.Title] {
		t.Fatalf("surviving title %q belongs to no writer", survivor.Title)
	}
	if len(messages.msgs) != writers {
		t.Fatalf("expected %d appended exchanges, got %d", writers, len(messages.msgs))
	}
}

func TestChatServiceHistory_OwnerChecks(t *testing.T) {
	owner := "u1"
	sessions := newMockSessionRepo()
	sessions.sessions["owned"] = domain.ChatSession{SessionID: "owned", Title: "t", UserID: &owner}
	sessions.sessions["anonymous"] = domain.ChatSession{SessionID: "anonymous", Title: "t"}
	messages := &mockMessageRepo{msgs: []domain.ChatMessage{
		{SessionID: "owned", UserMessage: "q", BotResponse: "a"},
	}}
	svc := NewChatService(zap.NewNop(), &llm.MockClient{}, sessions, messages)

	if _, err := svc.History(context.Background(), "missing", "u1"); !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("expected forbidden for missing session, got %v", err)
	}
	if _, err := svc.History(context.Background(), "anonymous", "u1"); !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("expected forbidden for ownerless session, got %v", err)
	}
	if _, err := svc.History(context.Background(), "owned", "u2"); !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("expected forbidden for wrong owner, got %v", err)
	}
	if _, err := svc.History(context.Background(), "owned", ""); !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("expected forbidden for anonymous requester, got %v", err)
	}

	replay, err := svc.History(context.Background(), "owned", "u1")
	if err != nil {
		t.Fatalf("expected owner access, got %v", err)
	}
	if len(replay) != 1 || replay[0].UserMessage != "q" {
		t.Fatalf("unexpected replay %+v", replay)
	}
}

func TestChatServiceListSessionsPassesFilter(t *testing.T) {
	sessions := newMockSessionRepo()
	sessions.summaries = []domain.SessionSummary{{SessionID: "s1", Title: "t"}}
	svc := NewChatService(zap.NewNop(), &llm.MockClient{}, sessions, &mockMessageRepo{})

	user := "u1"
	got, err := svc.ListSessions(context.Background(), &user)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].SessionID != "s1" {
		t.Fatalf("unexpected summaries %+v", got)
	}
	if sessions.lastFilter == nil || *sessions.lastFilter != "u1" {
		t.Fatalf("expected filter forwarded to repo")
	}
}
