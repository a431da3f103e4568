package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func openRouterTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenRouterClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		DefaultModel: "test/model",
		MaxRetries:   3,
		RetryDelay:   time.Millisecond,
	})
	return srv, client
}

func successBody(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"id":    "gen-1",
		"model": "test/model",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{
			"prompt_tokens":     120,
			"completion_tokens": 80,
			"total_tokens":      200,
		},
	})
	return body
}

func TestOpenRouterClient_Chat(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		var gotAuth, gotPath string
		var gotReq openRouterRequest

		_, client := openRouterTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotReq)
			w.Write(successBody(`{"recipe_name": "Gumbo"}`))
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{
				{Role: "system", Content: "system prompt"},
				{Role: "user", Content: "user prompt"},
			},
			Model:       "test/model",
			Temperature: 0.1,
			MaxTokens:   4096,
			ResponseFormat: &ResponseFormat{
				Type:       "json_schema",
				JSONSchema: json.RawMessage(`{"name": "recipe_document"}`),
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotAuth != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", gotAuth)
		}
		if gotPath != "/chat/completions" {
			t.Errorf("unexpected path: %s", gotPath)
		}
		if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", gotReq.Messages)
		}
		if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_schema" {
			t.Error("response format not forwarded")
		}

		if !result.Success {
			t.Error("expected success")
		}
		if result.Content != `{"recipe_name": "Gumbo"}` {
			t.Errorf("unexpected content: %q", result.Content)
		}
		if result.TotalTokens != 200 {
			t.Errorf("expected 200 tokens, got %d", result.TotalTokens)
		}
		if result.ParsedJSON == nil {
			t.Error("expected opportunistic JSON parse")
		}
		if result.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", result.Attempts)
		}
	})

	t.Run("retries on 429 then succeeds", func(t *testing.T) {
		var calls atomic.Int64
		_, client := openRouterTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write(successBody("{}"))
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "x"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Attempts != 2 {
			t.Errorf("expected 2 attempts, got %d", result.Attempts)
		}
	})

	t.Run("does not retry 401", func(t *testing.T) {
		var calls atomic.Int64
		_, client := openRouterTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "x"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
		if result.Success {
			t.Error("expected failed result")
		}
		if result.ErrorType != "http_error" {
			t.Errorf("unexpected error type: %s", result.ErrorType)
		}
	})

	t.Run("gives up after max retries on 500", func(t *testing.T) {
		var calls atomic.Int64
		_, client := openRouterTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "x"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 calls, got %d", calls.Load())
		}
	})

	t.Run("empty choices fails", func(t *testing.T) {
		_, client := openRouterTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id": "gen-1", "model": "test/model", "choices": []}`))
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "x"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if result.ErrorType != "empty_response" {
			t.Errorf("unexpected error type: %s", result.ErrorType)
		}
	})

	t.Run("default model applied", func(t *testing.T) {
		var gotReq openRouterRequest
		_, client := openRouterTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&gotReq)
			w.Write(successBody("{}"))
		})

		if _, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "x"}},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotReq.Model != "test/model" {
			t.Errorf("expected default model, got %q", gotReq.Model)
		}
	})
}

func TestShouldRetryStatus(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusRequestEntityTooLarge, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		if got := shouldRetryStatus(tt.status); got != tt.want {
			t.Errorf("shouldRetryStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
