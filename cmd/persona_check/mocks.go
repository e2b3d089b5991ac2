package main

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"careerbot/internal/domain"
)

// --- Repos en memoria para correr el check sin Postgres ---

type memorySessionRepo struct {
	sessions map[string]domain.ChatSession
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]domain.ChatSession)}
}

func (m *memorySessionRepo) Upsert(ctx context.Context, session domain.ChatSession) error {
	m.sessions[session.SessionID] = session
	return nil
}

func (m *memorySessionRepo) EnsureExists(ctx context.Context, sessionID, title string) error {
	if _, ok := m.sessions[sessionID]; !ok {
		m.sessions[sessionID] = domain.ChatSession{SessionID: sessionID, Title: title}
	}
	return nil
}

func (m *memorySessionRepo) GetByID(ctx context.Context, sessionID string) (domain.ChatSession, error) {
	session, ok := m.sessions[sessionID]
	if !ok {
		return domain.ChatSession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *memorySessionRepo) ListSummaries(ctx context.Context, userID *string) ([]domain.SessionSummary, error) {
	var out []domain.SessionSummary
	for _, s := range m.sessions {
		if userID != nil && (s.UserID == nil || *s.UserID != *userID) {
			continue
		}
		out = append(out, domain.SessionSummary{SessionID: s.SessionID, Title: s.Title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out, nil
}

type memoryMessageRepo struct {
	msgs []domain.ChatMessage
}

func newMemoryMessageRepo() *memoryMessageRepo { return &memoryMessageRepo{} }

func (m *memoryMessageRepo) Append(ctx context.Context, message domain.ChatMessage) error {
	message.ID = int64(len(m.msgs) + 1)
	m.msgs = append(m.msgs, message)
	return nil
}

func (m *memoryMessageRepo) ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for i := len(m.msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.msgs[i].SessionID == sessionID {
			out = append(out, m.msgs[i])
		}
	}
	return out, nil
}

func (m *memoryMessageRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range m.msgs {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}
