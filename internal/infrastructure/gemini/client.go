// Package gemini is the alternative conversational inference backend,
// selected with AI_PROVIDER=gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lwindle/MeetMoment/internal/domain"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.8)

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// Converse maps Gemini failures onto the shared inference error taxonomy so
// the chat controller treats both providers identically.
func (c *Client) Converse(ctx context.Context, message string, persona domain.Persona, callerID uint) (string, error) {
	prompt := fmt.Sprintf("%s\n\n用户（ID %d）说：%s", persona.SystemPrompt(), callerID, message)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusUnauthorized {
				return "", domain.ErrAuthExpired
			}
			return "", fmt.Errorf("%w: status %d: %s", domain.ErrServiceStatus, apiErr.Code, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", domain.ErrServiceStatus)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
