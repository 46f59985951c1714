package audio

import (
	"log/slog"
	"os"
	"os/exec"
)

// WaveChime plays short cue files through the configured player command.
// All failures are swallowed; cues are decoration, not control flow.
type WaveChime struct {
	playCommand []string
	listening   string
	stopped     string
}

var _ Chime = (*WaveChime)(nil)

// NewWaveChime builds a chime. Empty paths disable the respective cue.
func NewWaveChime(playCommand []string, listeningPath, stoppedPath string) *WaveChime {
	return &WaveChime{
		playCommand: playCommand,
		listening:   listeningPath,
		stopped:     stoppedPath,
	}
}

func (c *WaveChime) PlayListening() { c.play(c.listening) }
func (c *WaveChime) PlayStopped()   { c.play(c.stopped) }

func (c *WaveChime) play(path string) {
	if path == "" || len(c.playCommand) == 0 {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	args := append(append([]string{}, c.playCommand...), path)
	if err := exec.Command(args[0], args[1:]...).Run(); err != nil {
		slog.Debug("chime playback failed", "path", path, "error", err)
	}
}

// NopChime is used when no cue files are configured.
type NopChime struct{}

var _ Chime = NopChime{}

func (NopChime) PlayListening() {}
func (NopChime) PlayStopped()   {}
