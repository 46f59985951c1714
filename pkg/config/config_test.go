package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
llm:
  provider: gemini
  gemini_model: gemini-2.0-flash
  web_search: true
actions:
  enable_shutdown: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("Provider = %q, want %q", cfg.LLM.Provider, "gemini")
	}
	if !cfg.LLM.WebSearch {
		t.Error("WebSearch = false, want true")
	}
	if !cfg.Actions.EnableShutdown {
		t.Error("EnableShutdown = false, want true")
	}
	// Untouched fields keep their defaults.
	if cfg.LLM.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want 256", cfg.LLM.MaxTokens)
	}
	if cfg.App.Hotkey != "f9" {
		t.Errorf("Hotkey = %q, want %q", cfg.App.Hotkey, "f9")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeFile(t, path, `{"llm": {"provider": "ollama", "ollama_model": "mistral"}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.OllamaModel != "mistral" {
		t.Errorf("OllamaModel = %q, want %q", cfg.LLM.OllamaModel, "mistral")
	}
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `llm: {gemini_api_key: from-file}`)

	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.GeminiAPIKey != "from-env" {
		t.Errorf("GeminiAPIKey = %q, want %q", cfg.LLM.GeminiAPIKey, "from-env")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load on missing file: want error, got nil")
	}
}
