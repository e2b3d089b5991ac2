package domain

// Question es una pregunta abierta del quiz con respuestas de ejemplo.
type Question struct {
	Question    string   `json:"question"`
	Suggestions []string `json:"suggestions"`
}

// QuestionSet agrupa las preguntas del quiz en las tres categorías fijas.
// El contrato es que siempre llegan las tres keys, aunque sea con placeholders.
type QuestionSet struct {
	TechnicalSkills []Question `json:"technicalSkills"`
	HardSkills      []Question `json:"hardSkills"`
	SoftSkills      []Question `json:"softSkills"`
}
