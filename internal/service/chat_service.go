package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"careerbot/internal/domain"
	"careerbot/internal/llm"
	"careerbot/internal/repository"
)

var ErrSessionForbidden = errors.New("session forbidden")

const (
	// historyWindow limita cuántos intercambios guardados se reinyectan en el prompt.
	historyWindow = 10

	defaultSessionTitle = "Untitled Chat"

	// chatFallbackReply es la respuesta fija cuando el completion service falla.
	// Se persiste igual que cualquier respuesta; el endpoint nunca devuelve 500 por el LLM.
	chatFallbackReply = "Sorry, I couldn't get a valid response."
)

// systemPersona define la identidad del asistente. El orden y contenido exactos del
// hilo (persona, few-shot, historial, mensaje nuevo) son un contrato estricto: el
// completion service tiene que ver exactamente esta secuencia.
const systemPersona = `You are *Msee wa Mtaa*, a friendly Kenyan career guidance assistant.
Speak casually like a Nairobi youth – in Kenyan Swahili mixed with Sheng.
Avoid formal Tanzanian Swahili. Don't mention Tanzanian websites, policies, or schools.
Respond using Kenyan lingo, jokes, proverbs, and cultural vibes.
Only recommend resources relevant to Kenyans – like HELB, KUCCPS, JKUAT, Ajira Digital, or online hustles like transcription or YouTube.
Be inspirational: say things like "Hii life ni kujipanga", "Wewe uko na potential", or "Hustle si ya ku give up".
If a user uses formal English, switch to polite English. But if they drop Kiswahili/Sheng, match their tone kabisa.`

const (
	fewShotUserTurn      = "Nataka kujua career za tech"
	fewShotAssistantTurn = "Apo freshi! Tech iko na options mob – kama software dev, data science, ama UX design. Unapenda coding ama uko kwa design side?"
)

var titleKeywords = []string{"career", "tech", "job", "opportunities", "skills"}

// ChatService arma el hilo de conversación, llama al LLM y persiste el intercambio.
type ChatService struct {
	logger    *zap.Logger
	llmClient llm.Client
	sessions  repository.SessionRepository
	messages  repository.MessageRepository
}

func NewChatService(
	logger *zap.Logger,
	llmClient llm.Client,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
) *ChatService {
	return &ChatService{
		logger:    logger,
		llmClient: llmClient,
		sessions:  sessions,
		messages:  messages,
	}
}

type ChatInput struct {
	Message   string
	SessionID string
	Title     string
	UserID    *string
}

type ChatResult struct {
	SessionID string
	Reply     string
}

// Chat procesa un mensaje entrante: replay del historial, llamada al LLM y persistencia.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatResult, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DeriveTitle(in.Message)
	}

	// La sesión se upsertea antes del append para que la FK del mensaje siempre resuelva.
	// title y user_id son last-writer-wins: escrituras concurrentes no se mergean.
	if err := s.sessions.Upsert(ctx, domain.ChatSession{
		SessionID: sessionID,
		Title:     title,
		UserID:    in.UserID,
	}); err != nil {
		return ChatResult{}, fmt.Errorf("upsert session: %w", err)
	}

	history, err := s.messages.ListRecent(ctx, sessionID, historyWindow)
	if err != nil {
		return ChatResult{}, fmt.Errorf("list history: %w", err)
	}
	reverseMessages(history)

	reply, err := s.llmClient.Chat(ctx, BuildMessages(history, in.Message))
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			s.logger.Warn("llm chat failed, using fallback reply",
				zap.Error(err),
				zap.String("session_id", sessionID),
			)
		}
		reply = chatFallbackReply
	}

	if err := s.messages.Append(ctx, domain.ChatMessage{
		SessionID:   sessionID,
		UserMessage: in.Message,
		BotResponse: reply,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		return ChatResult{}, fmt.Errorf("append exchange: %w", err)
	}

	return ChatResult{SessionID: sessionID, Reply: reply}, nil
}

// BuildMessages concatena persona, few-shot, historial (oldest-first, cada fila
// expandida a turno user + turno assistant) y el mensaje nuevo.
func BuildMessages(history []domain.ChatMessage, newMessage string) []llm.Message {
	messages := make([]llm.Message, 0, 3+2*len(history)+1)
	messages = append(messages,
		llm.Message{Role: llm.RoleSystem, Content: systemPersona},
		llm.Message{Role: llm.RoleUser, Content: fewShotUserTurn},
		llm.Message{Role: llm.RoleAssistant, Content: fewShotAssistantTurn},
	)
	for _, row := range history {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: row.UserMessage},
			llm.Message{Role: llm.RoleAssistant, Content: row.BotResponse},
		)
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: newMessage})
}

// DeriveTitle genera un título a partir del primer keyword que matchee; el orden
// de la lista decide cuando hay varios.
func DeriveTitle(message string) string {
	lower := strings.ToLower(message)
	for _, keyword := range titleKeywords {
		if strings.Contains(lower, keyword) {
			return "Career Guidance on " + capitalize(keyword)
		}
	}
	return defaultSessionTitle
}

// ListSessions devuelve el resumen de sesiones con mensajes, opcionalmente filtrado por dueño.
func (s *ChatService) ListSessions(ctx context.Context, userID *string) ([]domain.SessionSummary, error) {
	return s.sessions.ListSummaries(ctx, userID)
}

// History devuelve el replay de una sesión tras verificar que requesterID sea el dueño.
// Sesiones inexistentes o sin dueño se reportan como forbidden, no como not-found,
// para no filtrar qué session_ids existen.
func (s *ChatService) History(ctx context.Context, sessionID, requesterID string) ([]domain.ChatMessage, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionForbidden
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID == nil || requesterID == "" || *session.UserID != requesterID {
		return nil, ErrSessionForbidden
	}
	return s.messages.ListBySession(ctx, sessionID)
}

func reverseMessages(messages []domain.ChatMessage) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(word)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
