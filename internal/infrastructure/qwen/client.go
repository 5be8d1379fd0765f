// Package qwen talks to the DashScope OpenAI-compatible chat completion
// endpoint. It is the default conversational inference backend.
package qwen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lwindle/MeetMoment/internal/config"
	"github.com/lwindle/MeetMoment/internal/domain"
)

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(cfg *config.AIConfig) *Client {
	return &Client{
		apiKey:  cfg.QwenAPIKey,
		baseURL: cfg.QwenBaseURL,
		model:   cfg.QwenModel,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout + 5*time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Converse asks the model to reply in the voice of the given persona.
// Network failures and timeouts map to ErrTransport, HTTP 401 to
// ErrAuthExpired, any other non-2xx status to ErrServiceStatus.
func (c *Client) Converse(ctx context.Context, message string, persona domain.Persona, callerID uint) (string, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: persona.SystemPrompt()},
			{Role: "user", Content: message},
		},
		Temperature: 0.8,
		TopP:        0.9,
		MaxTokens:   1000,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Caller-ID", fmt.Sprintf("%d", callerID))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", domain.ErrAuthExpired
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrServiceStatus, resp.StatusCode, body)
	}

	var apiResponse chatResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrServiceStatus, err)
	}
	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices returned", domain.ErrServiceStatus)
	}

	return apiResponse.Choices[0].Message.Content, nil
}
