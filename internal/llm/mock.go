package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
// Guarda el último hilo recibido para poder asegurar el orden de los turnos.
// Es seguro para llamadas concurrentes.
type MockClient struct {
	Response string
	Err      error

	mu           sync.Mutex
	LastMessages []Message
	Calls        int
}

func (m *MockClient) Chat(_ context.Context, messages []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastMessages = append([]Message(nil), messages...)
	return m.Response, m.Err
}
