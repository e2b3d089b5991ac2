package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"careerbot/internal/config"
	"careerbot/internal/llm"
	"careerbot/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

// Scenario describe un input de usuario y el comportamiento esperado del bot.
type Scenario struct {
	Input            string
	ExpectedBehavior string
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	llmClient := llm.NewHTTPClient(
		cfg.LLMBaseURL,
		cfg.LLMAPIKey,
		cfg.LLMModel,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
		logger,
	)

	sessionRepo := newMemorySessionRepo()
	messageRepo := newMemoryMessageRepo()
	chatSvc := service.NewChatService(logger, llmClient, sessionRepo, messageRepo)

	scenarios := []Scenario{
		{Input: "Niaje! Nataka kazi ya tech lakini sina degree", ExpectedBehavior: "Sheng/Kiswahili cálido, menciona Ajira Digital u online hustles, tono motivador"},
		{Input: "Good morning. Could you advise me on accounting careers in Kenya?", ExpectedBehavior: "Cambia a inglés cortés, recursos kenianos (KUCCPS, HELB), sin Sheng forzado"},
		{Input: "Nimechoka na hustle, naskia ku give up", ExpectedBehavior: "Respuesta inspiracional estilo 'Hustle si ya ku give up', empatía en Sheng"},
		{Input: "Which Tanzanian universities teach software engineering?", ExpectedBehavior: "Redirige a opciones kenianas sin recomendar instituciones de Tanzania"},
	}

	var totalPersona, totalHum int
	for _, sc := range scenarios {
		fmt.Printf("%s[Input]%s %s\n", colorCyan, colorReset, sc.Input)

		result, err := chatSvc.Chat(ctx, service.ChatInput{Message: sc.Input})
		if err != nil {
			log.Fatalf("chat failed: %v", err)
		}
		fmt.Printf("%s[Msee wa Mtaa]%s %s\n", colorGreen, colorReset, result.Reply)

		jr, err := evaluateResponse(ctx, llmClient, sc, result.Reply)
		if err != nil {
			log.Fatalf("judge failed: %v", err)
		}

		fmt.Printf("%sJuez🧠%s %q\n", colorCyan, colorReset, jr.Reasoning)
		fmt.Printf("Scores: Persona %d/5 | Humanidad %d/5\n\n", jr.PersonaScore, jr.HumanityScore)

		totalPersona += jr.PersonaScore
		totalHum += jr.HumanityScore
	}

	n := len(scenarios)
	fmt.Println("==== Promedios ====")
	fmt.Printf("Persona: %.2f/5 | Humanidad: %.2f/5\n",
		float64(totalPersona)/float64(n), float64(totalHum)/float64(n))
}
