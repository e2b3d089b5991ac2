package domain

import "time"

// ChatMessage es un intercambio request/response completo: una fila por llamada a /chat.
// Append-only: nunca se muta ni se borra.
type ChatMessage struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Title       string    `json:"title,omitempty"`
	CreatedAt   time.Time `json:"timestamp"`
}
