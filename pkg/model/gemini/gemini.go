package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/Ranojay1/LocalAssistant/pkg/model"
)

// Provider implements model.Provider using the Google Gen AI SDK.
type Provider struct {
	client      *genai.Client
	modelName   string
	maxTokens   int32
	temperature float32
	topP        float32
}

// Verify interface compliance.
var _ model.Provider = (*Provider)(nil)

// New creates a new Gemini provider.
func New(ctx context.Context, apiKey, modelName string, maxTokens int, temperature, topP float32) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Provider{
		client:      client,
		modelName:   modelName,
		maxTokens:   int32(maxTokens),
		temperature: temperature,
		topP:        topP,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "gemini" }

// Generate sends a single-shot completion request.
func (p *Provider) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	slog.Debug("gemini.Generate", "model", p.modelName, "promptLen", len(prompt))

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.temperature),
		TopP:            genai.Ptr(p.topP),
		MaxOutputTokens: p.maxTokens,
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	resp, err := p.client.Models.GenerateContent(ctx, p.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
