package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"intentpay/config"
)

// Classifier is the external text-classification capability: given a system
// and user prompt it returns a structured JSON object or fails. Failures are
// always recovered by the resolver's keyword fallback.
type Classifier interface {
	Classify(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error)
}

// OpenAIClassifier calls a hosted chat-completions API in JSON mode
type OpenAIClassifier struct {
	config     *config.ClassifierConfig
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func NewOpenAIClassifier(cfg *config.ClassifierConfig) *OpenAIClassifier {
	return &OpenAIClassifier{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Classify sends the prompts to the chat-completions endpoint and returns the
// raw JSON object the model produced
func (s *OpenAIClassifier) Classify(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	reqBody := chatCompletionRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	if result.Error != nil {
		return nil, fmt.Errorf("classifier API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("classifier returned no content")
	}

	content := json.RawMessage(result.Choices[0].Message.Content)
	if !json.Valid(content) {
		return nil, fmt.Errorf("classifier returned invalid JSON")
	}

	return content, nil
}
