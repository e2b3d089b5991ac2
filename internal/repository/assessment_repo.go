package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"careerbot/internal/domain"
)

// AssessmentRepository define el contrato de persistencia para skill assessments.
// Las filas llevan answers/scores ya serializados; la (de)serialización vive en el service.
type AssessmentRepository interface {
	Insert(ctx context.Context, record domain.AssessmentRecord) error
	GetBySessionID(ctx context.Context, sessionID string) (domain.AssessmentRecord, error)
	ListAll(ctx context.Context) ([]domain.AssessmentRecord, error)
}

// PgAssessmentRepository implementa AssessmentRepository usando pgxpool.
type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

func (r *PgAssessmentRepository) Insert(ctx context.Context, record domain.AssessmentRecord) error {
	const query = `
		INSERT INTO skill_assessments (session_id, interest, answers, scores, recommendations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		record.SessionID,
		record.Interest,
		record.Answers,
		record.Scores,
		record.Recommendations,
		record.CreatedAt,
	)
	return err
}

func (r *PgAssessmentRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.AssessmentRecord, error) {
	const query = `
		SELECT session_id, interest, answers, scores, recommendations, created_at
		FROM skill_assessments
		WHERE session_id = $1
		LIMIT 1
	`
	var rec domain.AssessmentRecord
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&rec.SessionID,
		&rec.Interest,
		&rec.Answers,
		&rec.Scores,
		&rec.Recommendations,
		&rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AssessmentRecord{}, err
	}
	return rec, err
}

func (r *PgAssessmentRepository) ListAll(ctx context.Context) ([]domain.AssessmentRecord, error) {
	const query = `
		SELECT session_id, interest, answers, scores, recommendations, created_at
		FROM skill_assessments
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AssessmentRecord
	for rows.Next() {
		var rec domain.AssessmentRecord
		if err := rows.Scan(
			&rec.SessionID,
			&rec.Interest,
			&rec.Answers,
			&rec.Scores,
			&rec.Recommendations,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
