package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"careerbot/internal/llm"
)

// judgeResponse representa la respuesta estructurada del juez evaluador en formato JSON.
type judgeResponse struct {
	Reasoning     string `json:"reasoning"`
	PersonaScore  int    `json:"persona_score"`
	HumanityScore int    `json:"humanity_score"`
}

func evaluateResponse(ctx context.Context, judge llm.Client, sc Scenario, response string) (judgeResponse, error) {
	shengSignal := detectShengSignal(response)
	tanzanianRef := detectTanzanianReference(response)

	heuristicLine := fmt.Sprintf(
		"Indicadores heurísticos: señal_sheng=%t, referencia_tanzania=%t",
		shengSignal, tanzanianRef,
	)

	prompt := buildJudgePrompt(heuristicLine, sc.Input, response, sc.ExpectedBehavior)

	raw, err := judge.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "You are an expert evaluator. Respond with JSON only."},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return judgeResponse{}, err
	}

	// robustez: extraemos el primer JSON balanceado
	jsonStr := extractFirstJSONObject(raw)
	if jsonStr == "" {
		return judgeResponse{}, fmt.Errorf("juez devolvió no-json: %q", raw)
	}

	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("error parseando JSON juez: %w (raw=%q)", err, jsonStr)
	}

	// clamps simples por si el juez delira con 0/10
	jr.PersonaScore = clamp1to5(jr.PersonaScore)
	jr.HumanityScore = clamp1to5(jr.HumanityScore)

	// Penalización dura por recomendar recursos de Tanzania
	if tanzanianRef && jr.PersonaScore > 2 {
		jr.PersonaScore = 2
	}

	return jr, nil
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// detectShengSignal busca marcadores léxicos de Sheng/Kiswahili keniano o
// referencias a recursos locales. Heurística barata, el juez LLM tiene la última palabra.
func detectShengSignal(response string) bool {
	l := strings.ToLower(response)

	strongSignals := []string{
		"niaje", "sasa", "poa", "freshi", "mambo", "kujipanga",
		"hustle", "mtaa", "kabisa", "bro", "buda", "fiti",
		"helb", "kuccps", "ajira", "jkuat",
	}
	softSignals := []string{
		"karibu", "asante", "sawa", "ndio", "lakini", "wewe",
	}

	for _, s := range strongSignals {
		if strings.Contains(l, s) {
			return true
		}
	}

	softCount := 0
	for _, s := range softSignals {
		if strings.Contains(l, s) {
			softCount++
		}
	}
	return softCount >= 2
}

// detectTanzanianReference marca menciones de instituciones o políticas de Tanzania,
// que la persona tiene prohibido recomendar.
func detectTanzanianReference(response string) bool {
	l := strings.ToLower(response)
	refs := []string{
		"tanzania", "tanzanian", "dar es salaam", "dodoma",
		"udsm", "necta", "tamisemi", "heslb",
	}
	for _, r := range refs {
		if strings.Contains(l, r) {
			return true
		}
	}
	return false
}

func buildJudgePrompt(heuristicLine, input, response, expectedBehavior string) string {
	return fmt.Sprintf(
		`Eres un juez experto que evalúa a un asistente de orientación vocacional keniano
llamado "Msee wa Mtaa". Debe hablar en Kiswahili keniano mezclado con Sheng, cambiar
a inglés cortés si el usuario escribe inglés formal, recomendar solo recursos kenianos
(HELB, KUCCPS, JKUAT, Ajira Digital) y mantener un tono motivador de Nairobi.

%s

Input Usuario: %q
Respuesta Bot: %q
Expectativa del escenario: %s

Evalúa (1-5):
1) Persona: ¿Mantiene el registro Sheng/keniano correcto para el input y evita recursos de Tanzania? (1=Ignora la persona, 5=Perfectamente alineado).
2) Humanidad: ¿Suena natural o robótico/asistente? (1=Lenguaje de IA/listas, 5=Indistinguible de un humano).

Responde SOLO JSON (sin markdown):
{
  "reasoning": "...",
  "persona_score": 0,
  "humanity_score": 0
}`,
		heuristicLine, input, response, expectedBehavior,
	)
}

// extractFirstJSONObject devuelve el primer objeto {...} balanceado.
func extractFirstJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
