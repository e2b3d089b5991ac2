package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"careerbot/internal/domain"
)

// MessageRepository define el contrato de persistencia para intercambios de chat.
type MessageRepository interface {
	Append(ctx context.Context, message domain.ChatMessage) error
	// ListRecent devuelve hasta limit intercambios del más nuevo al más viejo.
	ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
	// ListBySession devuelve el replay completo en orden de timestamp ascendente,
	// con el título de la sesión denormalizado en cada fila.
	ListBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Append(ctx context.Context, message domain.ChatMessage) error {
	const query = `
		INSERT INTO chat_messages (session_id, user_message, bot_response, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		message.SessionID,
		message.UserMessage,
		message.BotResponse,
		message.CreatedAt,
	)
	return err
}

func (r *PgMessageRepository) ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	const query = `
		SELECT id, session_id, user_message, bot_response, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserMessage, &m.BotResponse, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// listBySessionQuery desempata timestamps iguales con el id serial para que el
// replay preserve siempre el orden de inserción.
const listBySessionQuery = `
	SELECT cm.id, cm.session_id, cm.user_message, cm.bot_response, cs.title, cm.created_at
	FROM chat_messages cm
	JOIN chat_sessions cs ON cm.session_id = cs.session_id
	WHERE cm.session_id = $1
	ORDER BY cm.created_at ASC, cm.id ASC
`

func (r *PgMessageRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, listBySessionQuery, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserMessage, &m.BotResponse, &m.Title, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
