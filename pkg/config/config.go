// Package config loads the assistant configuration from config.yaml or
// config.json, applies a local .env file, and finally applies environment
// variable overrides. Environment always wins over file contents.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	App     AppConfig     `yaml:"app" json:"app"`
	LLM     LLMConfig     `yaml:"llm" json:"llm"`
	STT     STTConfig     `yaml:"stt" json:"stt"`
	TTS     TTSConfig     `yaml:"tts" json:"tts"`
	Actions ActionsConfig `yaml:"actions" json:"actions"`
	Server  ServerConfig  `yaml:"server" json:"server"`
}

// AppConfig covers wake sources and audio cues.
type AppConfig struct {
	Hotkey         string `yaml:"hotkey" json:"hotkey"`
	ListeningSound string `yaml:"listening_sound" json:"listening_sound"`
	StoppedSound   string `yaml:"stopped_sound" json:"stopped_sound"`
	DataDir        string `yaml:"data_dir" json:"data_dir"`
}

// LLMConfig selects and tunes the text generator.
type LLMConfig struct {
	Provider     string  `yaml:"provider" json:"provider"` // "ollama" or "gemini"
	SystemPrompt string  `yaml:"system_prompt" json:"system_prompt"`
	MaxTokens    int     `yaml:"max_tokens" json:"max_tokens"`
	Temperature  float32 `yaml:"temperature" json:"temperature"`
	TopP         float32 `yaml:"top_p" json:"top_p"`
	WebSearch    bool    `yaml:"web_search" json:"web_search"`

	OllamaURL   string `yaml:"ollama_url" json:"ollama_url"`
	OllamaModel string `yaml:"ollama_model" json:"ollama_model"`

	GeminiAPIKey string `yaml:"gemini_api_key" json:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model" json:"gemini_model"`
}

// STTConfig configures the exec-based transcriber.
type STTConfig struct {
	// RecordCommand captures one utterance to the wav file given as its
	// last argument, e.g. ["arecord", "-f", "S16_LE", "-r", "16000", "-d", "6"].
	RecordCommand []string `yaml:"record_command" json:"record_command"`
	// WhisperBinary is the whisper.cpp main binary.
	WhisperBinary string `yaml:"whisper_binary" json:"whisper_binary"`
	ModelPath     string `yaml:"model_path" json:"model_path"`
	Language      string `yaml:"language" json:"language"`
}

// TTSConfig configures the exec-based synthesizer.
type TTSConfig struct {
	PiperBinary string   `yaml:"piper_binary" json:"piper_binary"`
	VoicePath   string   `yaml:"voice_path" json:"voice_path"`
	PlayCommand []string `yaml:"play_command" json:"play_command"`
}

// ActionsConfig gates the built-in actions and points at the command table.
type ActionsConfig struct {
	CommandsPath    string            `yaml:"commands_path" json:"commands_path"`
	Commands        map[string]string `yaml:"commands" json:"commands"`
	EnableShutdown  bool              `yaml:"enable_shutdown" json:"enable_shutdown"`
	EnableInventory bool              `yaml:"enable_inventory" json:"enable_inventory"`
}

// ServerConfig configures the HTTP/websocket surface.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// Load reads the configuration from path. When path is empty it prefers
// config.json in the working directory, falling back to config.yaml.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		} else {
			path = "config.yaml"
		}
	}

	loadEnvFile(".env")

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, cfg)
	default:
		err = yaml.Unmarshal(raw, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Hotkey:  "f9",
			DataDir: "data",
		},
		LLM: LLMConfig{
			Provider:     "ollama",
			SystemPrompt: "Responde breve.",
			MaxTokens:    256,
			Temperature:  0.7,
			TopP:         0.9,
			OllamaURL:    "http://localhost:11434",
			OllamaModel:  "llama3.2",
			GeminiModel:  "gemini-2.0-flash",
		},
		STT: STTConfig{Language: "es"},
		Actions: ActionsConfig{
			CommandsPath: "commands.json",
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    ":8765",
		},
	}
}

// loadEnvFile loads KEY=VALUE pairs into the process environment without
// overwriting variables that are already set. Missing file is fine.
func loadEnvFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if key != "" && os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.GeminiAPIKey = v
	}
	if v := os.Getenv("ASSISTANT_OLLAMA_URL"); v != "" {
		cfg.LLM.OllamaURL = v
	}
	if v := os.Getenv("ASSISTANT_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ASSISTANT_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
}
