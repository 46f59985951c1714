// Package wake funnels wake triggers from every front end (hotkey, HTTP,
// websocket) into a single queue the pipeline drains. Triggering while a
// reply is playing barges in: speech is cut before the event is queued.
package wake

import (
	"log/slog"
	"time"

	"github.com/Ranojay1/LocalAssistant/pkg/audio"
	"github.com/Ranojay1/LocalAssistant/pkg/domain"
)

// Queue serializes wake events for the pipeline.
type Queue struct {
	events chan domain.WakeEvent
	stop   *audio.StopToken
	chime  audio.Chime
}

// New builds a queue. stop is fired on every trigger so any in-flight
// speech is interrupted before the new turn starts.
func New(stop *audio.StopToken, chime audio.Chime) *Queue {
	return &Queue{
		events: make(chan domain.WakeEvent, 4),
		stop:   stop,
		chime:  chime,
	}
}

// Trigger interrupts playback, enqueues a wake event, and plays the
// listening cue. If the queue is full the event is dropped: the pending
// events already cover the user's request.
func (q *Queue) Trigger(source string) {
	q.stop.Stop()

	ev := domain.WakeEvent{Source: source, At: time.Now()}
	select {
	case q.events <- ev:
	default:
		slog.Debug("wake queue full, dropping event", "source", source)
		return
	}

	q.chime.PlayListening()
}

// Events is the channel the pipeline selects on.
func (q *Queue) Events() <-chan domain.WakeEvent {
	return q.events
}
