package grammar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/cefrscope/internal/model"
)

func TestAnthropicClassifier_Predict_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key test-key, got %s", r.Header.Get("x-api-key"))
		}

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != "claude-test" {
			t.Errorf("unexpected model %v", body["model"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "msg_123",
			"type":  "message",
			"role":  "assistant",
			"model": "claude-test",
			"content": []map[string]string{
				{"type": "text", "text": "```json\n{\"A1\": 0.6, \"A2\": 0.3, \"B1\": 0.1}\n```"},
			},
			"stop_reason": "end_turn",
			"usage":       map[string]int{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	defer server.Close()

	classifier, err := NewAnthropicClassifier(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "claude-test",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}

	dist, err := classifier.Predict(context.Background(), "I like cats.")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if top, _ := dist.Top(); top != model.A1 {
		t.Errorf("expected A1, got %s", top)
	}
}

func TestAnthropicClassifier_Predict_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "invalid_request_error", "message": "bad model"}}`))
	}))
	defer server.Close()

	classifier, _ := NewAnthropicClassifier(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	_, err := classifier.Predict(context.Background(), "I like cats.")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Anthropic API error") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAnthropicClassifier_DefaultModel(t *testing.T) {
	classifier, err := NewAnthropicClassifier(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	if classifier.Name() != "anthropic/"+defaultAnthropicModel {
		t.Errorf("unexpected name %q", classifier.Name())
	}
}

func TestNewAnthropicClassifier_NoKey(t *testing.T) {
	if _, err := NewAnthropicClassifier(Config{}); err == nil {
		t.Error("expected error without API key")
	}
}
