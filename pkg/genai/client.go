// Package genai wraps the Gemini SDK behind a one-method interface so that
// usecases depending on generation stay mockable in tests.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// TextGenerator is the generation surface the pipeline consumes: one prompt
// in, free text out. All JSON extraction and validation is the caller's job.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds a Gemini-backed TextGenerator for the given model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("genai: API key is required")
	}
	if model == "" {
		return nil, errors.New("genai: model name is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("genai: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("genai: empty response")
	}
	return text, nil
}
