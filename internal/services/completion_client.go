package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CompletionProvider performs one chat completion against one model.
// Implementations must not retry; the fallback chain decides what happens next.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is the provider-neutral input of one attempt
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
	Temperature  float64
	MaxTokens    int
}

// ChatMessage represents a message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest represents the request payload for the chat completions API
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// ChatCompletionResponse represents the subset of the response we read
type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// maxErrorBody caps how much of an upstream error body is kept for logs
const maxErrorBody = 512

// OpenRouterClient talks to an OpenAI-compatible chat completions endpoint
type OpenRouterClient struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	logger     *logrus.Logger
}

// NewOpenRouterClient creates a client whose every call is bounded by timeout
func NewOpenRouterClient(apiKey, apiURL string, timeout time.Duration, logger *logrus.Logger) *OpenRouterClient {
	return &OpenRouterClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey: apiKey,
		apiURL: apiURL,
		logger: logger,
	}
}

// Complete sends a single completion request and extracts the first choice
func (c *OpenRouterClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := ChatCompletionRequest{
		Model: req.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.WithField("model", req.Model).Debug("Sending completion request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamStatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), maxErrorBody),
		}
	}

	var decoded ChatCompletionResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}
	if len(decoded.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := decoded.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
