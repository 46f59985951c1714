// Command assistant runs the voice assistant: wake handling, speech
// capture, action routing, generation, and the local API server, with a
// terminal UI as the default front end.
//
// Usage:
//
//	assistant [-config config.yaml] [-headless]
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ranojay1/LocalAssistant/pkg/actions"
	"github.com/Ranojay1/LocalAssistant/pkg/audio"
	"github.com/Ranojay1/LocalAssistant/pkg/config"
	"github.com/Ranojay1/LocalAssistant/pkg/history"
	"github.com/Ranojay1/LocalAssistant/pkg/intent"
	"github.com/Ranojay1/LocalAssistant/pkg/model"
	"github.com/Ranojay1/LocalAssistant/pkg/model/gemini"
	"github.com/Ranojay1/LocalAssistant/pkg/model/ollama"
	"github.com/Ranojay1/LocalAssistant/pkg/model/searching"
	"github.com/Ranojay1/LocalAssistant/pkg/pipeline"
	"github.com/Ranojay1/LocalAssistant/pkg/profile"
	"github.com/Ranojay1/LocalAssistant/pkg/search"
	"github.com/Ranojay1/LocalAssistant/pkg/server"
	"github.com/Ranojay1/LocalAssistant/pkg/store/sqlite"
	"github.com/Ranojay1/LocalAssistant/pkg/sysinfo"
	"github.com/Ranojay1/LocalAssistant/pkg/wake"
)

func main() {
	var (
		configPath string
		headless   bool
	)
	flag.StringVar(&configPath, "config", "", "path to config.yaml or config.json")
	flag.BoolVar(&headless, "headless", false, "run without the terminal UI")
	flag.Parse()

	// Setup logger.
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize store.
	os.MkdirAll(cfg.App.DataDir, 0755)
	db, err := sqlite.New(filepath.Join(cfg.App.DataDir, "assistant.db"))
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	prof, err := profile.New(ctx, db)
	if err != nil {
		slog.Error("Failed to load profile", "error", err)
		os.Exit(1)
	}

	// Command table with live reload.
	table, err := actions.LoadTable(cfg.Actions.CommandsPath, cfg.Actions.Commands)
	if err != nil {
		slog.Error("Failed to load command table", "error", err)
		os.Exit(1)
	}
	if err := table.Watch(ctx); err != nil {
		slog.Warn("Command table reload disabled", "error", err)
	}

	// The host summary is stable for the life of the process; probe once.
	hostSummary := sysinfo.Summary()
	inventory := func() string { return hostSummary }

	router := actions.NewRouter(cfg.Actions, table, inventory)

	// Model provider.
	base, err := newProvider(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize model provider", "error", err)
		os.Exit(1)
	}
	var gen model.Provider = base
	if cfg.LLM.WebSearch {
		gen = searching.New(base, search.New(3))
	}

	// Audio.
	stop := audio.NewStopToken()
	var chime audio.Chime = audio.NopChime{}
	if cfg.App.ListeningSound != "" || cfg.App.StoppedSound != "" {
		chime = audio.NewWaveChime(cfg.TTS.PlayCommand, cfg.App.ListeningSound, cfg.App.StoppedSound)
	}
	stt, err := audio.NewWhisperTranscriber(cfg.STT)
	if err != nil {
		slog.Error("Failed to initialize transcriber", "error", err)
		os.Exit(1)
	}
	tts, err := audio.NewPiperSynthesizer(cfg.TTS, stop)
	if err != nil {
		slog.Error("Failed to initialize synthesizer", "error", err)
		os.Exit(1)
	}

	wakeQueue := wake.New(stop, chime)

	pipe, err := pipeline.New(pipeline.Deps{
		Wake:        wakeQueue,
		Transcriber: stt,
		Synthesizer: tts,
		Chime:       chime,
		Actions:     router,
		Classifier:  intent.New(base),
		Generator:   gen,
		Profile:     prof,
		History:     history.NewWindow(),
		Turns:       db,
		Persona:     cfg.LLM.SystemPrompt,
		Inventory:   inventory,
	})
	if err != nil {
		slog.Error("Failed to build pipeline", "error", err)
		os.Exit(1)
	}

	// Start pipeline in background.
	go func() {
		if err := pipe.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Pipeline stopped unexpectedly", "error", err)
		}
	}()

	// Start API server.
	if cfg.Server.Enabled {
		srv := server.New(wakeQueue, prof, table, db)
		go func() {
			if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Server failed", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			srv.Shutdown(context.Background())
		}()
	}

	if headless {
		slog.Info("Running headless", "hotkey", "disabled")
		<-ctx.Done()
		return
	}

	p := tea.NewProgram(initialModel(cfg.App.Hotkey, wakeQueue, prof, db), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("UI failed", "error", err)
		os.Exit(1)
	}
	cancel()
}

func newProvider(ctx context.Context, cfg *config.Config) (model.Provider, error) {
	if cfg.LLM.Provider == "gemini" {
		return gemini.New(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel,
			cfg.LLM.MaxTokens, cfg.LLM.Temperature, cfg.LLM.TopP)
	}
	return ollama.New(cfg.LLM.OllamaURL, cfg.LLM.OllamaModel,
		cfg.LLM.MaxTokens, cfg.LLM.Temperature, cfg.LLM.TopP), nil
}
