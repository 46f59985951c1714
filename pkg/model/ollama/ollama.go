// Package ollama implements model.Provider against a local Ollama daemon's
// chat API. This is the local-first default: no API key, no network egress.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Ranojay1/LocalAssistant/pkg/model"
)

// Message is one chat message in Ollama's wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

// Provider talks to an Ollama daemon over HTTP.
type Provider struct {
	baseURL     string
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	httpClient  *http.Client
}

var _ model.Provider = (*Provider)(nil)

// New creates a provider for the daemon at baseURL (e.g. http://localhost:11434).
func New(baseURL, modelName string, maxTokens int, temperature, topP float32) *Provider {
	return &Provider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "ollama" }

// Generate sends a non-streaming chat completion request.
func (p *Provider) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:    p.modelName,
		Messages: messages,
		Stream:   false,
		Options: map[string]any{
			"num_predict": p.maxTokens,
			"temperature": p.temperature,
			"top_p":       p.topP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama chat: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	return strings.TrimSpace(out.Message.Content), nil
}
