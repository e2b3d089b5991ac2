package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"careerbot/internal/llm"
)

const (
	evaluationSystem = "You are a helpful career guidance assistant."

	// evaluationFallback se devuelve cuando el servicio responde pero sin contenido.
	// Un fallo de red/HTTP sí sube como error al handler.
	evaluationFallback = "Sorry, I couldn't generate recommendations right now."
)

// EvaluationService agrupa respuestas del quiz por categoría y pide al LLM
// recomendaciones de coaching en prosa.
type EvaluationService struct {
	logger    *zap.Logger
	llmClient llm.Client
}

func NewEvaluationService(logger *zap.Logger, llmClient llm.Client) *EvaluationService {
	return &EvaluationService{
		logger:    logger,
		llmClient: llmClient,
	}
}

// Evaluate arma el prompt de coaching y devuelve el texto crudo de la respuesta.
func (s *EvaluationService) Evaluate(ctx context.Context, interest string, answers map[string]string) (string, error) {
	groups := groupAnswers(answers)

	prompt := buildCoachingPrompt(interest, groups)

	reply, err := s.llmClient.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: evaluationSystem},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return evaluationFallback, nil
		}
		return "", fmt.Errorf("evaluate skills: %w", err)
	}
	return reply, nil
}

// answerGroups son las respuestas agrupadas en las tres categorías fijas.
type answerGroups struct {
	Technical []string
	Hard      []string
	Soft      []string
}

// groupAnswers separa las respuestas por el prefijo de categoría de cada key
// ("{category}-{index}"). Prefijos desconocidos se descartan en silencio.
// Dentro de cada categoría el orden es por índice numérico ascendente.
func groupAnswers(answers map[string]string) answerGroups {
	type keyed struct {
		index  int
		answer string
	}
	buckets := map[string][]keyed{}

	for key, answer := range answers {
		category, indexText, ok := strings.Cut(key, "-")
		if !ok {
			continue
		}
		index, err := strconv.Atoi(indexText)
		if err != nil {
			index = 0
		}
		switch category {
		case "technical", "hard", "soft":
			buckets[category] = append(buckets[category], keyed{index: index, answer: answer})
		}
	}

	collect := func(category string) []string {
		entries := buckets[category]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].index < entries[j].index
		})
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.answer)
		}
		return out
	}

	return answerGroups{
		Technical: collect("technical"),
		Hard:      collect("hard"),
		Soft:      collect("soft"),
	}
}

func buildCoachingPrompt(interest string, groups answerGroups) string {
	var sb strings.Builder
	sb.WriteString("You are a friendly, engaging career-guidance expert (think ChatGPT style).\n\n")
	sb.WriteString(fmt.Sprintf("The user’s area of interest is: %q.\n\n", interest))
	sb.WriteString("They answered these questions:\n")
	sb.WriteString(fmt.Sprintf("• Technical Skills answers: %s\n", strings.Join(groups.Technical, " | ")))
	sb.WriteString(fmt.Sprintf("• Hard Skills answers: %s\n", strings.Join(groups.Hard, " | ")))
	sb.WriteString(fmt.Sprintf("• Soft Skills answers: %s\n\n", strings.Join(groups.Soft, " | ")))
	sb.WriteString("Please:\n")
	sb.WriteString("1. Summarize their key strengths and areas to improve.\n")
	sb.WriteString("2. Recommend 2–3 specific career paths or roles tailored to their interest and skill profile.\n")
	sb.WriteString("3. For each area they could improve, suggest concrete learning resources—mention at least one YouTube channel, one online course or platform, and one relevant certification or community.\n")
	sb.WriteString("4. Keep your tone upbeat, encouraging, and conversational, as if you’re personally coaching them.\n\n")
	sb.WriteString("Respond in clear paragraphs; no lists of JSON—just human-readable advice.\n")
	return sb.String()
}
