package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"intentpay/config"
)

func newClassifierServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAIClassifier) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	classifier := NewOpenAIClassifier(&config.ClassifierConfig{
		APIURL:   server.URL,
		APIToken: "test-token",
		Model:    "test-model",
	})
	return server, classifier
}

func TestClassifySuccess(t *testing.T) {
	_, classifier := newClassifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Unexpected authorization header %q", auth)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("Expected model test-model, got %s", req.Model)
		}
		if req.ResponseFormat.Type != "json_object" {
			t.Errorf("Expected json_object response format, got %s", req.ResponseFormat.Type)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"action\":\"Token Swap\",\"endpoint\":\"/api/swap\"}"}}]}`))
	})

	raw, err := classifier.Classify(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("Failed to parse returned JSON: %v", err)
	}
	if parsed["endpoint"] != "/api/swap" {
		t.Errorf("Expected /api/swap, got %v", parsed["endpoint"])
	}
}

func TestClassifyAPIError(t *testing.T) {
	_, classifier := newClassifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	})

	_, err := classifier.Classify(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("Expected API error message surfaced, got %v", err)
	}
}

func TestClassifyNoContent(t *testing.T) {
	_, classifier := newClassifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	if _, err := classifier.Classify(context.Background(), "s", "u"); err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestClassifyInvalidJSONContent(t *testing.T) {
	_, classifier := newClassifierServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"not json at all"}}]}`))
	})

	if _, err := classifier.Classify(context.Background(), "s", "u"); err == nil {
		t.Fatal("Expected error for non-JSON content")
	}
}
