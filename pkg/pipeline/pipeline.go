// Package pipeline drives the assistant's turn loop: it drains the wake
// queue and, for each wake, runs capture, action routing, intent
// classification, and finally open generation. A failed turn is logged and
// dropped; the loop itself only stops with its context.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ranojay1/LocalAssistant/pkg/actions"
	"github.com/Ranojay1/LocalAssistant/pkg/audio"
	"github.com/Ranojay1/LocalAssistant/pkg/directive"
	"github.com/Ranojay1/LocalAssistant/pkg/domain"
	"github.com/Ranojay1/LocalAssistant/pkg/history"
	"github.com/Ranojay1/LocalAssistant/pkg/model"
	"github.com/Ranojay1/LocalAssistant/pkg/profile"
	"github.com/Ranojay1/LocalAssistant/pkg/store"
	"github.com/Ranojay1/LocalAssistant/pkg/wake"
)

// Classifier decides whether an utterance names an allow-listed action.
type Classifier interface {
	Classify(ctx context.Context, utterance string, hints []string) (string, bool)
}

// Deps are the collaborators the pipeline is wired with.
type Deps struct {
	Wake        *wake.Queue
	Transcriber audio.Transcriber
	Synthesizer audio.Synthesizer
	Chime       audio.Chime
	Actions     actions.Executor
	Classifier  Classifier
	Generator   model.Provider
	Profile     *profile.Store
	History     *history.Window
	Turns       store.TurnLog
	// Persona is the base system prompt the generator speaks with.
	Persona string
	// Inventory supplies the one-line host summary for prompt context.
	Inventory func() string
}

// Pipeline is the single-goroutine turn loop. All mutation of profile and
// history happens here; other goroutines only trigger wakes or read
// snapshots.
type Pipeline struct {
	deps      Deps
	onboarded bool
}

// New validates the wiring and returns the pipeline.
func New(deps Deps) (*Pipeline, error) {
	switch {
	case deps.Wake == nil:
		return nil, fmt.Errorf("pipeline: wake queue is required")
	case deps.Transcriber == nil || deps.Synthesizer == nil:
		return nil, fmt.Errorf("pipeline: audio transcriber and synthesizer are required")
	case deps.Actions == nil:
		return nil, fmt.Errorf("pipeline: action executor is required")
	case deps.Generator == nil:
		return nil, fmt.Errorf("pipeline: generator is required")
	case deps.Profile == nil || deps.History == nil || deps.Turns == nil:
		return nil, fmt.Errorf("pipeline: profile, history, and turn log are required")
	}
	if deps.Chime == nil {
		deps.Chime = audio.NopChime{}
	}
	if deps.Inventory == nil {
		deps.Inventory = func() string { return "" }
	}
	return &Pipeline{deps: deps}, nil
}

// Run drains wake events until ctx is cancelled. A failing turn never
// stops the loop.
func (p *Pipeline) Run(ctx context.Context) error {
	slog.Info("pipeline running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-p.deps.Wake.Events():
			if err := p.handleWake(ctx, ev); err != nil {
				slog.Error("turn failed", "source", ev.Source, "err", err)
			}
		}
	}
}

func (p *Pipeline) handleWake(ctx context.Context, ev domain.WakeEvent) error {
	slog.Debug("wake", "source", ev.Source)

	if !p.onboarded {
		p.onboarded = true
		if !p.deps.Profile.IsComplete() {
			p.runOnboarding(ctx)
			return nil
		}
	}

	text, err := p.deps.Transcriber.Transcribe(ctx)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	p.deps.Chime.PlayStopped()
	text = strings.TrimSpace(text)
	if text == "" {
		// Accidental wake: no speech, no history entry.
		slog.Debug("empty transcription, ignoring wake")
		return nil
	}
	slog.Info("heard", "text", text)

	res := p.deps.Actions.Handle(text)
	switch res.Kind {
	case domain.ActionExecuted:
		p.say(ctx, res.Reply)
		p.finishTurn(ctx, text, res.Reply)
		return nil
	case domain.ActionNeedsConfirmation:
		p.say(ctx, res.Reply)
		// A silence-cancelled confirmation leaves nothing worth recording.
		if final := p.confirmLoop(ctx); final != "" {
			p.finishTurn(ctx, text, final)
		}
		return nil
	}

	hints := p.deps.Actions.Hints()
	if p.deps.Classifier != nil {
		if hint, ok := p.deps.Classifier.Classify(ctx, text, hints); ok {
			// The hint can vanish between Hints() and dispatch when the
			// command table reloads; an empty dispatch falls through to
			// generation instead of ending the turn silently.
			if dispatched := p.deps.Actions.Handle(hint); dispatched.Reply != "" {
				p.say(ctx, dispatched.Reply)
				p.finishTurn(ctx, text, dispatched.Reply)
				return nil
			}
			slog.Warn("classified hint produced no reply, falling through", "hint", hint)
		}
	}

	reply, err := p.generate(ctx, text, hints)
	if err != nil {
		// The user hears nothing on failure; the turn just ends.
		return fmt.Errorf("generate: %w", err)
	}
	p.say(ctx, reply)
	p.finishTurn(ctx, text, reply)
	return nil
}

// confirmLoop resolves a pending confirmation: up to two extra exchanges,
// then the proposal is dropped. Returns the last spoken reply.
func (p *Pipeline) confirmLoop(ctx context.Context) string {
	last := ""
	for range 2 {
		answer, err := p.deps.Transcriber.Transcribe(ctx)
		p.deps.Chime.PlayStopped()
		if err != nil || strings.TrimSpace(answer) == "" {
			p.deps.Actions.CancelPending()
			return last
		}
		res := p.deps.Actions.Handle(answer)
		if res.Reply != "" {
			p.say(ctx, res.Reply)
			last = res.Reply
		}
		if res.Kind != domain.ActionNeedsConfirmation {
			return last
		}
	}
	p.deps.Actions.CancelPending()
	return last
}

// runOnboarding walks the question list once. Fields already known are not
// asked; an empty answer skips the field without re-prompting.
func (p *Pipeline) runOnboarding(ctx context.Context) {
	slog.Info("profile incomplete, running onboarding")
	p.say(ctx, "Hola, vamos a conocernos un poco.")

	for _, q := range profile.Questions {
		if p.deps.Profile.Answered(q.Field) {
			continue
		}
		p.say(ctx, q.Prompt)
		answer, err := p.deps.Transcriber.Transcribe(ctx)
		p.deps.Chime.PlayStopped()
		if err != nil {
			slog.Error("onboarding capture failed", "field", q.Field, "err", err)
			continue
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}
		if err := p.deps.Profile.UpdateField(ctx, q.Field, answer); err != nil {
			slog.Error("onboarding save failed", "field", q.Field, "err", err)
		}
	}

	p.say(ctx, "Gracias, ya te conozco mejor.")
}

// generate runs the open-generation path: assemble context, call the
// provider, strip directives, dispatch only allow-listed commands.
func (p *Pipeline) generate(ctx context.Context, text string, hints []string) (string, error) {
	raw, err := p.deps.Generator.Generate(ctx, p.buildPrompt(text), p.buildSystemPrompt(hints))
	if err != nil {
		return "", err
	}

	reply := directive.TruncateContinuation(raw)
	cleaned, names := directive.ExtractCommands(reply)

	allowed := make(map[string]bool, len(hints))
	for _, h := range hints {
		allowed[strings.ToLower(h)] = true
	}
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if !allowed[n] {
			slog.Warn("generator named a command outside the allow-list, dropping", "name", name)
			continue
		}
		if res := p.deps.Actions.Handle(n); res.Kind == domain.ActionExecuted {
			slog.Info("command dispatched from reply", "intent", n)
		}
	}
	return cleaned, nil
}

func (p *Pipeline) buildSystemPrompt(hints []string) string {
	var b strings.Builder
	b.WriteString(p.deps.Persona)
	if len(hints) > 0 {
		b.WriteString("\n\nAcciones disponibles: ")
		b.WriteString(strings.Join(hints, ", "))
		b.WriteString("\nCRÍTICO: solo puedes usar las acciones listadas. Nunca inventes comandos. Para ejecutar una acción incluye [CMD:nombre_exacto] en tu respuesta.")
	}
	if inv := p.deps.Inventory(); inv != "" {
		b.WriteString("\nDatos del equipo: ")
		b.WriteString(inv)
	}
	return b.String()
}

func (p *Pipeline) buildPrompt(text string) string {
	var parts []string
	if pc := p.deps.Profile.Context(); pc != "" {
		parts = append(parts, pc)
	}
	if hc := p.deps.History.RecentContext(); hc != "" {
		parts = append(parts, hc)
	}
	parts = append(parts, "Usuario: "+text+"\nAsistente:")
	return strings.Join(parts, "\n\n")
}

func (p *Pipeline) say(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if err := p.deps.Synthesizer.Speak(ctx, text); err != nil {
		slog.Error("speech failed", "err", err)
	}
}

// finishTurn records the exchange everywhere it persists: the in-memory
// window, the durable turn log, and the interaction counter.
func (p *Pipeline) finishTurn(ctx context.Context, userText, reply string) {
	p.deps.History.Record(userText, reply)

	turn := &domain.Turn{
		ID:            uuid.NewString(),
		Timestamp:     time.Now(),
		UserText:      userText,
		AssistantText: reply,
	}
	if err := p.deps.Turns.AppendTurn(ctx, turn); err != nil {
		slog.Error("turn log append failed", "err", err)
	}
	if err := p.deps.Profile.IncrementInteractions(ctx); err != nil {
		slog.Error("interaction count update failed", "err", err)
	}
}
