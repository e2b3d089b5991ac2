package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHTTPClientChat_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request failed: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": RoleAssistant, "content": "Poa!"}},
			},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key-123", "test-model", time.Second, zap.NewNop())
	reply, err := client.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleUser, Content: "niaje"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply != "Poa!" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer key-123" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody.Model != "test-model" || len(gotBody.Messages) != 2 {
		t.Fatalf("unexpected request body %+v", gotBody)
	}
	if gotBody.Messages[0].Role != RoleSystem {
		t.Fatalf("expected system turn first, got %+v", gotBody.Messages[0])
	}
}

func TestHTTPClientChat_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key", "model", time.Second, zap.NewNop())
	_, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatalf("expected error for 429 status")
	}
	if errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("http failure must not look like empty response")
	}
}

func TestHTTPClientChat_APIErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"message": "model offline"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key", "model", time.Second, zap.NewNop())
	_, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatalf("expected error for api error payload")
	}
}

func TestHTTPClientChat_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key", "model", time.Second, zap.NewNop())
	_, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestHTTPClientChat_BlankContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": ""}}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key", "model", time.Second, zap.NewNop())
	_, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse for blank content, got %v", err)
	}
}

func TestNewHTTPClientDefaults(t *testing.T) {
	client := NewHTTPClient("", "key", "model", 0, nil)
	if client.baseURL != "https://openrouter.ai/api/v1" {
		t.Fatalf("unexpected default base url %q", client.baseURL)
	}
	if client.client.Timeout != 60*time.Second {
		t.Fatalf("unexpected default timeout %v", client.client.Timeout)
	}

	trimmed := NewHTTPClient("http://example.com/v1/", "key", "model", time.Second, nil)
	if trimmed.baseURL != "http://example.com/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", trimmed.baseURL)
	}
}
