// Package history keeps the bounded in-memory conversation window used to
// build generation prompts. The capacity bound is structural (oldest turn
// evicted on overflow); the recency bound is applied at read time only.
package history

import (
	"strings"
	"time"

	"github.com/Ranojay1/LocalAssistant/pkg/domain"
)

const (
	// DefaultCapacity is the structural bound on retained turns.
	DefaultCapacity = 20
	// DefaultMaxAge is the trailing horizon surfaced by RecentContext.
	DefaultMaxAge = 10 * time.Minute
	// DefaultMaxRecall caps how many qualifying turns RecentContext renders.
	DefaultMaxRecall = 10
)

// Window is a capacity-bounded, time-decayed log of conversation turns.
// It is owned by the pipeline goroutine and needs no locking.
type Window struct {
	capacity  int
	maxAge    time.Duration
	maxRecall int
	turns     []domain.Turn
	now       func() time.Time
}

// NewWindow creates a window with the default bounds.
func NewWindow() *Window {
	return &Window{
		capacity:  DefaultCapacity,
		maxAge:    DefaultMaxAge,
		maxRecall: DefaultMaxRecall,
		now:       time.Now,
	}
}

// Record appends a turn stamped with the current time, evicting the oldest
// turn when the capacity bound is exceeded.
func (w *Window) Record(userText, assistantText string) {
	w.turns = append(w.turns, domain.Turn{
		Timestamp:     w.now(),
		UserText:      userText,
		AssistantText: assistantText,
	})
	if len(w.turns) > w.capacity {
		w.turns = w.turns[len(w.turns)-w.capacity:]
	}
}

// RecentContext renders the turns within the trailing horizon, capped at
// the most recent maxRecall, as alternating "Usuario:"/"Asistente:" lines
// in chronological order. Empty when no turn qualifies.
func (w *Window) RecentContext() string {
	cutoff := w.now().Add(-w.maxAge)

	var recent []domain.Turn
	for _, t := range w.turns {
		if t.Timestamp.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) > w.maxRecall {
		recent = recent[len(recent)-w.maxRecall:]
	}
	if len(recent) == 0 {
		return ""
	}

	var b strings.Builder
	for _, t := range recent {
		b.WriteString("Usuario: ")
		b.WriteString(t.UserText)
		b.WriteString("\nAsistente: ")
		b.WriteString(t.AssistantText)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Len returns the number of structurally retained turns.
func (w *Window) Len() int { return len(w.turns) }
