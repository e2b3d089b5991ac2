package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"careerbot/internal/domain"
	"careerbot/internal/llm"
)

const questionGeneratorSystem = "You are a JSON generator. When asked, you output ONLY valid JSON—no explanation, no markdown."

// SkillsService resuelve el banco de preguntas: estático para intereses conocidos,
// generado por LLM para el resto. Nunca devuelve error: cualquier fallo degrada a
// un placeholder bien formado con las tres categorías.
type SkillsService struct {
	logger    *zap.Logger
	llmClient llm.Client
}

func NewSkillsService(logger *zap.Logger, llmClient llm.Client) *SkillsService {
	return &SkillsService{
		logger:    logger,
		llmClient: llmClient,
	}
}

// Questions devuelve el set de preguntas para un interés, normalizado a lower/trim.
func (s *SkillsService) Questions(ctx context.Context, interest string) domain.QuestionSet {
	normalized := strings.ToLower(strings.TrimSpace(interest))

	if set, ok := questionBank[normalized]; ok {
		return set
	}

	set, err := s.generateQuestions(ctx, normalized)
	if err != nil {
		s.logger.Warn("question generation failed, using placeholder",
			zap.Error(err),
			zap.String("interest", normalized),
		)
		return placeholderQuestions(normalized)
	}
	return set
}

func (s *SkillsService) generateQuestions(ctx context.Context, interest string) (domain.QuestionSet, error) {
	instruction := fmt.Sprintf(
		`Generate three technicalSkills questions, three hardSkills questions, and three softSkills questions for a skill assessment in the field of %q. Each question should be an object with keys "question" (open-ended) and "suggestions" (2–4 sample answers). Output only valid JSON.`,
		interest,
	)

	raw, err := s.llmClient.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: questionGeneratorSystem},
		{Role: llm.RoleUser, Content: instruction},
	})
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("generate questions: %w", err)
	}

	cleaned := cleanFencedReply(raw)
	candidate := extractFirstJSONObject(cleaned)
	if candidate == "" {
		candidate = cleaned
	}

	var set domain.QuestionSet
	if err := json.Unmarshal([]byte(candidate), &set); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("parse generated questions: %w", err)
	}
	if len(set.TechnicalSkills) == 0 && len(set.HardSkills) == 0 && len(set.SoftSkills) == 0 {
		return domain.QuestionSet{}, fmt.Errorf("generated questions empty")
	}
	return set, nil
}

func placeholderQuestions(interest string) domain.QuestionSet {
	return domain.QuestionSet{
		TechnicalSkills: []domain.Question{
			{Question: fmt.Sprintf("No technical questions available for %q.", interest), Suggestions: []string{}},
		},
		HardSkills: []domain.Question{
			{Question: fmt.Sprintf("No hard-skill questions available for %q.", interest), Suggestions: []string{}},
		},
		SoftSkills: []domain.Question{
			{Question: fmt.Sprintf("No soft-skill questions available for %q.", interest), Suggestions: []string{}},
		},
	}
}
