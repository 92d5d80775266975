package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultModel   = "swe-1"
	defaultBaseURL = "https://api.windsurf.ai/v1"
	defaultTimeout = 30 * time.Second
	maxTokens      = 1024
)

// Generator produces free text for a prompt. The insight service holds
// a nil Generator when no API key is configured and falls back to its
// deterministic templates.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClientConfig holds configuration for the completion client.
type ClientConfig struct {
	APIKey  string
	Model   string        // defaults to swe-1
	BaseURL string        // defaults to https://api.windsurf.ai/v1
	Timeout time.Duration // defaults to 30s
}

// Client calls a chat-completions style endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: API key not set")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("llm: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("llm: failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("llm: response contained no choices")
	}
	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
