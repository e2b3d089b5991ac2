package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"careerbot/internal/domain"
)

// SessionRepository define el contrato de persistencia para sesiones de chat.
type SessionRepository interface {
	// Upsert sobreescribe title y user_id en conflicto: last-writer-wins.
	// Un owner desconocido se guarda como NULL, no como error.
	Upsert(ctx context.Context, session domain.ChatSession) error
	// EnsureExists inserta la sesión si falta y no toca el título existente.
	EnsureExists(ctx context.Context, sessionID, title string) error
	GetByID(ctx context.Context, sessionID string) (domain.ChatSession, error)
	ListSummaries(ctx context.Context, userID *string) ([]domain.SessionSummary, error)
}

// PgSessionRepository implementa SessionRepository usando pgxpool.
type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

// upsertSessionQuery resuelve el owner con un subselect: un user_id que no existe
// en users degrada a NULL en vez de romper la FK y tumbar el POST /chat.
const upsertSessionQuery = `
	INSERT INTO chat_sessions (session_id, title, user_id)
	VALUES ($1, $2, (SELECT id FROM users WHERE id = $3))
	ON CONFLICT (session_id) DO UPDATE SET
		title = EXCLUDED.title,
		user_id = EXCLUDED.user_id
`

func (r *PgSessionRepository) Upsert(ctx context.Context, session domain.ChatSession) error {
	_, err := r.pool.Exec(ctx, upsertSessionQuery,
		session.SessionID,
		session.Title,
		session.UserID,
	)
	return err
}

func (r *PgSessionRepository) EnsureExists(ctx context.Context, sessionID, title string) error {
	const query = `
		INSERT INTO chat_sessions (session_id, title)
		VALUES ($1, $2)
		ON CONFLICT (session_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, sessionID, title)
	return err
}

func (r *PgSessionRepository) GetByID(ctx context.Context, sessionID string) (domain.ChatSession, error) {
	const query = `
		SELECT session_id, title, user_id
		FROM chat_sessions
		WHERE session_id = $1
	`
	var s domain.ChatSession
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&s.SessionID,
		&s.Title,
		&s.UserID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ChatSession{}, err
	}
	return s, err
}

func (r *PgSessionRepository) ListSummaries(ctx context.Context, userID *string) ([]domain.SessionSummary, error) {
	query := `
		SELECT cs.session_id, cs.title, MIN(cm.created_at) AS first_message_time
		FROM chat_messages cm
		JOIN chat_sessions cs ON cm.session_id = cs.session_id
	`
	args := []any{}
	if userID != nil {
		query += ` WHERE cs.user_id = $1`
		args = append(args, *userID)
	}
	query += `
		GROUP BY cs.session_id, cs.title
		ORDER BY first_message_time DESC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.SessionSummary
	for rows.Next() {
		var s domain.SessionSummary
		if err := rows.Scan(&s.SessionID, &s.Title, &s.FirstMessageTime); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
