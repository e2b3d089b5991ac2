package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/jackc/pgx/v5"

	"careerbot/internal/domain"
)

// Repos en memoria compartidos por los tests de handlers.

type mockUserRepo struct {
	usersByName map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{usersByName: make(map[string]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByName[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	user, ok := m.usersByName[username]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

type mockSessionRepo struct {
	sessions  map[string]domain.ChatSession
	summaries []domain.SessionSummary
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]domain.ChatSession)}
}

func (m *mockSessionRepo) Upsert(_ context.Context, session domain.ChatSession) error {
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) EnsureExists(_ context.Context, sessionID, title string) error {
	if _, ok := m.sessions[sessionID]; !ok {
		m.sessions[sessionID] = domain.ChatSession{SessionID: sessionID, Title: title}
	}
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, sessionID string) (domain.ChatSession, error) {
	session, ok := m.sessions[sessionID]
	if !ok {
		return domain.ChatSession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *mockSessionRepo) ListSummaries(_ context.Context, _ *string) ([]domain.SessionSummary, error) {
	return m.summaries, nil
}

type mockMessageRepo struct {
	msgs []domain.ChatMessage
}

func (m *mockMessageRepo) Append(_ context.Context, message domain.ChatMessage) error {
	message.ID = int64(len(m.msgs) + 1)
	m.msgs = append(m.msgs, message)
	return nil
}

func (m *mockMessageRepo) ListRecent(_ context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for i := len(m.msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.msgs[i].SessionID == sessionID {
			out = append(out, m.msgs[i])
		}
	}
	return out, nil
}

func (m *mockMessageRepo) ListBySession(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range m.msgs {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type mockAssessmentRepo struct {
	records []domain.AssessmentRecord
}

func (m *mockAssessmentRepo) Insert(_ context.Context, record domain.AssessmentRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockAssessmentRepo) GetBySessionID(_ context.Context, sessionID string) (domain.AssessmentRecord, error) {
	for _, r := range m.records {
		if r.SessionID == sessionID {
			return r, nil
		}
	}
	return domain.AssessmentRecord{}, pgx.ErrNoRows
}

func (m *mockAssessmentRepo) ListAll(_ context.Context) ([]domain.AssessmentRecord, error) {
	out := make([]domain.AssessmentRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t interface{ Fatalf(string, ...any) }, rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response failed: %v (body=%s)", err, rec.Body.String())
	}
	return out
}
