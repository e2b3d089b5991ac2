package domain

import "time"

// ChatSession agrupa intercambios de chat y, opcionalmente, una evaluación de skills.
// El session_id es un token opaco generado por el servidor o enviado por el cliente.
type ChatSession struct {
	SessionID string  `json:"session_id"`
	Title     string  `json:"title"`
	UserID    *string `json:"user_id,omitempty"`
}

// SessionSummary es una fila del listado de sesiones: título y hora del primer mensaje.
type SessionSummary struct {
	SessionID        string    `json:"session_id"`
	Title            string    `json:"title"`
	FirstMessageTime time.Time `json:"first_message_time"`
}
