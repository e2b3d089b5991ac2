package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"careerbot/internal/domain"
	"careerbot/internal/repository"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrInvalidScores      = errors.New("scores out of range")
)

// AssessmentService persiste y recupera resultados del quiz de skills.
// answers y scores viajan serializados como JSON text; recommendations como
// texto delimitado por doble newline.
type AssessmentService struct {
	logger      *zap.Logger
	sessions    repository.SessionRepository
	assessments repository.AssessmentRepository
}

func NewAssessmentService(
	logger *zap.Logger,
	sessions repository.SessionRepository,
	assessments repository.AssessmentRepository,
) *AssessmentService {
	return &AssessmentService{
		logger:      logger,
		sessions:    sessions,
		assessments: assessments,
	}
}

type SaveAssessmentInput struct {
	SessionID       string
	Interest        string
	Answers         map[string]string
	Scores          map[string]float64
	Recommendations domain.Recommendations
}

// Save persiste un assessment, creando la sesión vinculada si no existe.
// Devuelve el session_id efectivo (generado cuando el cliente no manda uno).
func (s *AssessmentService) Save(ctx context.Context, in SaveAssessmentInput) (string, error) {
	for category, score := range in.Scores {
		if score < 0 || score > 1 {
			return "", fmt.Errorf("%w: %s=%v", ErrInvalidScores, category, score)
		}
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// La sesión se asegura solo para que la FK resuelva; un título existente no se pisa.
	if err := s.sessions.EnsureExists(ctx, sessionID, "Assessment: "+in.Interest); err != nil {
		s.logger.Warn("ensure session for assessment failed",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
	}

	answersJSON, err := json.Marshal(in.Answers)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}
	scoresJSON, err := json.Marshal(in.Scores)
	if err != nil {
		return "", fmt.Errorf("marshal scores: %w", err)
	}

	record := domain.AssessmentRecord{
		SessionID:       sessionID,
		Interest:        in.Interest,
		Answers:         string(answersJSON),
		Scores:          string(scoresJSON),
		Recommendations: in.Recommendations.Join(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.assessments.Insert(ctx, record); err != nil {
		return "", fmt.Errorf("insert assessment: %w", err)
	}

	return sessionID, nil
}

// FetchOne devuelve el assessment de una sesión ya deserializado.
func (s *AssessmentService) FetchOne(ctx context.Context, sessionID string) (domain.SkillAssessment, error) {
	record, err := s.assessments.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SkillAssessment{}, ErrAssessmentNotFound
		}
		return domain.SkillAssessment{}, fmt.Errorf("get assessment: %w", err)
	}
	return decodeAssessment(record)
}

// FetchAll devuelve todos los assessments, del más nuevo al más viejo.
func (s *AssessmentService) FetchAll(ctx context.Context) ([]domain.SkillAssessment, error) {
	records, err := s.assessments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}

	assessments := make([]domain.SkillAssessment, 0, len(records))
	for _, record := range records {
		assessment, err := decodeAssessment(record)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}
	return assessments, nil
}

func decodeAssessment(record domain.AssessmentRecord) (domain.SkillAssessment, error) {
	var answers map[string]string
	if err := json.Unmarshal([]byte(record.Answers), &answers); err != nil {
		return domain.SkillAssessment{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	var scores map[string]float64
	if err := json.Unmarshal([]byte(record.Scores), &scores); err != nil {
		return domain.SkillAssessment{}, fmt.Errorf("unmarshal scores: %w", err)
	}

	return domain.SkillAssessment{
		SessionID:       record.SessionID,
		Interest:        record.Interest,
		Answers:         answers,
		Scores:          scores,
		Recommendations: domain.SplitRecommendations(record.Recommendations),
		CreatedAt:       record.CreatedAt,
	}, nil
}
