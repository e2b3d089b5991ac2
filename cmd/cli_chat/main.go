package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"careerbot/internal/config"
	"careerbot/internal/db"
	"careerbot/internal/domain"
	"careerbot/internal/llm"
	"careerbot/internal/repository"
	"careerbot/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)

	llmClient := llm.NewHTTPClient(
		cfg.LLMBaseURL,
		cfg.LLMAPIKey,
		cfg.LLMModel,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
		logger,
	)
	chatSvc := service.NewChatService(logger, llmClient, sessionRepo, messageRepo)
	skillsSvc := service.NewSkillsService(logger, llmClient)
	evaluationSvc := service.NewEvaluationService(logger, llmClient)

	for {
		fmt.Println("\n===== Career Bot CLI =====")
		fmt.Println("[1] Chatear con Msee wa Mtaa")
		fmt.Println("[2] Quiz de skills")
		fmt.Println("[3] Listar sesiones")
		fmt.Println("[4] Salir")
		fmt.Print("Selecciona una opcion: ")

		line, _ := reader.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "1":
			if err := chatFlow(ctx, reader, chatSvc); err != nil {
				fmt.Printf("Error en chat: %v\n", err)
			}
		case "2":
			if err := quizFlow(ctx, reader, skillsSvc, evaluationSvc); err != nil {
				fmt.Printf("Error en quiz: %v\n", err)
			}
		case "3":
			if err := listSessionsFlow(ctx, chatSvc); err != nil {
				fmt.Printf("Error listando sesiones: %v\n", err)
			}
		case "4":
			os.Exit(0)
		default:
			fmt.Println("Opcion invalida.")
		}
	}
}

func chatFlow(ctx context.Context, reader *bufio.Reader, chatSvc *service.ChatService) error {
	var sessionID string

	fmt.Println("---- Modo Chat (escribe 'salir' para terminar chat) ----")
	for {
		fmt.Print("Tu > ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("leer input: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "salir") || strings.EqualFold(text, "exit") {
			fmt.Println("Saliendo del chat...")
			return nil
		}

		result, err := chatSvc.Chat(ctx, service.ChatInput{
			Message:   text,
			SessionID: sessionID,
		})
		if err != nil {
			fmt.Printf("error generando respuesta: %v\n", err)
			continue
		}
		sessionID = result.SessionID
		fmt.Printf("Msee > %s\n", result.Reply)
	}
}

func quizFlow(ctx context.Context, reader *bufio.Reader, skillsSvc *service.SkillsService, evaluationSvc *service.EvaluationService) error {
	fmt.Print("Area de interes (ej: technology, hospitality): ")
	interest, _ := reader.ReadString('\n')
	interest = strings.TrimSpace(interest)
	if interest == "" {
		interest = "technology"
	}

	set := skillsSvc.Questions(ctx, interest)
	answers := make(map[string]string)

	askCategory(reader, "technical", set.TechnicalSkills, answers)
	askCategory(reader, "hard", set.HardSkills, answers)
	askCategory(reader, "soft", set.SoftSkills, answers)

	fmt.Println("\nGenerando recomendaciones. Por favor, espere...")
	recommendations, err := evaluationSvc.Evaluate(ctx, interest, answers)
	if err != nil {
		return err
	}
	fmt.Println("\n--- Recomendaciones ---")
	fmt.Println(recommendations)
	return nil
}

func askCategory(reader *bufio.Reader, category string, questions []domain.Question, answers map[string]string) {
	for i, q := range questions {
		fmt.Printf("\n[%s %d/%d] %s\n", category, i+1, len(questions), q.Question)
		if len(q.Suggestions) > 0 {
			fmt.Printf("Sugerencias: %s\n", strings.Join(q.Suggestions, ", "))
		}
		fmt.Print("Respuesta: ")
		input, _ := reader.ReadString('\n')
		answers[fmt.Sprintf("%s-%d", category, i)] = strings.TrimSpace(input)
	}
}

func listSessionsFlow(ctx context.Context, chatSvc *service.ChatService) error {
	summaries, err := chatSvc.ListSessions(ctx, nil)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No hay sesiones guardadas.")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  (%s)\n", s.SessionID, s.Title, s.FirstMessageTime.Format(time.RFC3339))
	}
	return nil
}
