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

// WhisperTranscriber records one utterance with an external capture command
// and transcribes it with the whisper.cpp CLI.
type WhisperTranscriber struct {
	cfg config.STTConfig
}

var _ Transcriber = (*WhisperTranscriber)(nil)

// NewWhisperTranscriber validates the configuration and returns a transcriber.
func NewWhisperTranscriber(cfg config.STTConfig) (*WhisperTranscriber, error) {
	if len(cfg.RecordCommand) == 0 {
		return nil, fmt.Errorf("stt: record_command not configured")
	}
	if cfg.WhisperBinary == "" || cfg.ModelPath == "" {
		return nil, fmt.Errorf("stt: whisper_binary and model_path required")
	}
	return &WhisperTranscriber{cfg: cfg}, nil
}

// Transcribe captures audio and returns the normalized transcript, empty
// when nothing intelligible was spoken.
func (w *WhisperTranscriber) Transcribe(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "assistant-stt-*")
	if err != nil {
		return "", fmt.Errorf("stt tempdir: %w", err)
	}
	defer os.RemoveAll(dir)

	wav := filepath.Join(dir, "utterance.wav")
	record := append(append([]string{}, w.cfg.RecordCommand...), wav)
	cmd := exec.CommandContext(ctx, record[0], record[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("record: %w: %s", err, strings.TrimSpace(string(out)))
	}

	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wav,
		"--no-timestamps",
		"--no-prints",
	}
	if w.cfg.Language != "" {
		args = append(args, "-l", w.cfg.Language)
	}
	out, err := exec.CommandContext(ctx, w.cfg.WhisperBinary, args...).Output()
	if err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}

	text := normalizeTranscript(string(out))
	slog.Debug("transcribed", "text", text)
	return text, nil
}

// normalizeTranscript collapses whisper output to a single trimmed line and
// maps known no-speech artifacts to the empty string.
func normalizeTranscript(raw string) string {
	text := strings.Join(strings.Fields(raw), " ")
	switch strings.ToLower(strings.Trim(text, " .![]()")) {
	case "", "blank_audio", "silence", "música", "music":
		return ""
	}
	return text
}
