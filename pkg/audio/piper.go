package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Ranojay1/LocalAssistant/pkg/config"
)

// PiperSynthesizer renders speech with the piper CLI and plays it with the
// configured player command. Playback stops early when the shared stop
// token fires.
type PiperSynthesizer struct {
	cfg  config.TTSConfig
	stop *StopToken
}

var _ Synthesizer = (*PiperSynthesizer)(nil)

// NewPiperSynthesizer returns a synthesizer sharing stop with wake producers.
func NewPiperSynthesizer(cfg config.TTSConfig, stop *StopToken) (*PiperSynthesizer, error) {
	if cfg.PiperBinary == "" || cfg.VoicePath == "" {
		return nil, fmt.Errorf("tts: piper_binary and voice_path required")
	}
	if len(cfg.PlayCommand) == 0 {
		return nil, fmt.Errorf("tts: play_command not configured")
	}
	return &PiperSynthesizer{cfg: cfg, stop: stop}, nil
}

// Speak blocks until the text has been spoken or the stop token fires.
func (p *PiperSynthesizer) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	p.stop.Reset()

	dir, err := os.MkdirTemp("", "assistant-tts-*")
	if err != nil {
		return fmt.Errorf("tts tempdir: %w", err)
	}
	defer os.RemoveAll(dir)
	wav := filepath.Join(dir, "reply.wav")

	synth := exec.CommandContext(ctx, p.cfg.PiperBinary,
		"--model", p.cfg.VoicePath,
		"--output_file", wav,
	)
	synth.Stdin = strings.NewReader(text)
	if out, err := synth.CombinedOutput(); err != nil {
		return fmt.Errorf("piper: %w: %s", err, strings.TrimSpace(string(out)))
	}

	// Playback runs under a context that the stop token cancels, so an
	// interrupting wake event kills the player mid-file.
	playCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-p.stop.Done():
			cancel()
		case <-playCtx.Done():
		}
	}()

	play := append(append([]string{}, p.cfg.PlayCommand...), wav)
	cmd := exec.CommandContext(playCtx, play[0], play[1:]...)
	if err := cmd.Run(); err != nil {
		if playCtx.Err() != nil {
			slog.Debug("speech interrupted")
			return nil
		}
		return fmt.Errorf("play: %w", err)
	}
	return nil
}
