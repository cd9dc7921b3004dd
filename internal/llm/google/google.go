// Package google implements llm.Provider on top of the Gemini API via
// the google.golang.org/genai SDK.
package google

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/faqhub/faq-api/internal/llm"
)

// Provider implements the llm.Provider interface for Gemini.
type Provider struct {
	client *genai.Client
}

// New creates a new Gemini provider.
func New(ctx context.Context, apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Provider{client: client}, nil
}

// Ensure Provider implements llm.Provider
var _ llm.Provider = (*Provider)(nil)

// Name returns the provider name
func (p *Provider) Name() string {
	return "google"
}

// Generate sends a prompt to Gemini and returns the completion text.
// SDK call failures are treated as transient; an empty or blocked
// response is permanent.
func (p *Provider) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens: int32(opts.MaxTokens),
	}

	resp, err := p.client.Models.GenerateContent(ctx, opts.Model, genai.Text(prompt), cfg)
	if err != nil {
		return "", &llm.TransientError{Err: fmt.Errorf("gemini API call failed: %w", err)}
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", llm.ErrEmptyCompletion
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("completion blocked by safety filters")
	}

	text := resp.Text()
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}

	return text, nil
}
