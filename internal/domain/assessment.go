package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// RecommendationsDelimiter separa párrafos de recomendaciones en storage.
// El round-trip solo es exacto si ningún párrafo contiene el delimitador literal.
const RecommendationsDelimiter = "\n\n"

// Recommendations acepta tanto un array JSON de párrafos como un string plano.
type Recommendations []string

func (r *Recommendations) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*r = list
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*r = SplitRecommendations(text)
	return nil
}

// Join serializa los párrafos a la forma de storage.
func (r Recommendations) Join() string {
	return strings.Join(r, RecommendationsDelimiter)
}

// SplitRecommendations vuelve de la forma de storage a párrafos.
// El texto vacío mapea a slice vacío, no nil, para que el JSON quede [] y no null.
func SplitRecommendations(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.Split(text, RecommendationsDelimiter)
}

// SkillAssessment es el resultado de un quiz ya deserializado.
type SkillAssessment struct {
	SessionID       string             `json:"session_id"`
	Interest        string             `json:"interest"`
	Answers         map[string]string  `json:"answers"`
	Scores          map[string]float64 `json:"scores"`
	Recommendations Recommendations    `json:"recommendations"`
	CreatedAt       time.Time          `json:"created_at"`
}

// AssessmentRecord es la fila tal como vive en skill_assessments:
// answers y scores como JSON serializado, recommendations como texto delimitado.
type AssessmentRecord struct {
	SessionID       string
	Interest        string
	Answers         string
	Scores          string
	Recommendations string
	CreatedAt       time.Time
}
