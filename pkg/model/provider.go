package model

import "context"

// Provider represents a text-generation backend (local Ollama daemon,
// Gemini API). Implementations are single-shot: one prompt in, final text
// out. Any internal multi-step behavior (tool use, search augmentation)
// must still resolve to final text.
type Provider interface {
	// Name returns the provider's identifier (e.g. "ollama", "gemini").
	Name() string

	// Generate sends a prompt with an optional system prompt and blocks
	// until the completion is available. systemPrompt may be empty.
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}
