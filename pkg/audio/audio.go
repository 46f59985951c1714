// Package audio defines the capture and playback contracts the pipeline
// consumes, plus exec-based implementations over whisper.cpp and piper.
package audio

import (
	"context"
	"sync"
)

// Transcriber captures one utterance and returns its text. Blocks until an
// utterance boundary is detected or the capture window elapses; returns the
// empty string when no speech was captured.
type Transcriber interface {
	Transcribe(ctx context.Context) (string, error)
}

// Synthesizer speaks text. Speak blocks until playback finishes or is
// interrupted through the stop token it was constructed with.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Chime plays short audio cues. Best effort: failures are swallowed.
type Chime interface {
	PlayListening()
	PlayStopped()
}

// StopToken interrupts in-progress speech. It is owned by the wiring code
// and shared only with the wake producers allowed to cancel playback;
// Stop is safe from any goroutine. Reset re-arms the token for the next
// Speak call.
type StopToken struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewStopToken returns an armed token.
func NewStopToken() *StopToken {
	return &StopToken{ch: make(chan struct{})}
}

// Stop requests that in-progress playback halt at the next safe boundary.
// Idempotent until the next Reset.
func (t *StopToken) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.ch:
	default:
		close(t.ch)
	}
}

// Reset re-arms the token. Called by the synthesizer at the start of each
// Speak so an old Stop does not cancel new speech.
func (t *StopToken) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.ch:
		t.ch = make(chan struct{})
	default:
	}
}

// Done returns a channel closed once Stop has been requested.
func (t *StopToken) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ch
}
