package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ranojay1/LocalAssistant/pkg/model"
)

// searchMarkers signal an information request: even when a hint appears
// inside the utterance, the user is asking about something, not for it.
var searchMarkers = []string{
	"busca", "buscame", "búscame", "investiga", "averigua",
	"en internet", "en la web", "en google",
}

// questionMarkers are interrogative openings that veto execution.
var questionMarkers = []string{
	"qué es", "que es", "qué son", "que son",
	"quién", "quien", "cómo", "como se", "cuál", "cual",
	"cuándo", "cuando", "dónde", "donde", "por qué", "por que",
	"cuánto", "cuanto", "dime", "explica", "explícame", "explicame",
}

// questionVeto terminates the cascade when the utterance reads as a
// question or a search request. It runs before everything else so a
// hint name embedded in a question never launches anything.
type questionVeto struct{}

func (questionVeto) Name() string { return "question-veto" }

func (questionVeto) Resolve(_ context.Context, utterance string, _ []string) (string, Outcome) {
	low := strings.ToLower(strings.TrimSpace(utterance))
	for _, m := range searchMarkers {
		if strings.Contains(low, m) {
			return "", NoIntent
		}
	}
	for _, m := range questionMarkers {
		if strings.HasPrefix(low, m) || strings.Contains(low, " "+m+" ") {
			return "", NoIntent
		}
	}
	return "", Deferred
}

// actionWords are imperative verbs that mark a direct command.
var actionWords = []string{
	"abre", "abrir", "ejecuta", "ejecutar", "lanza", "inicia",
	"arranca", "cierra", "cerrar", "pon", "activa", "desactiva",
}

// actionWordFastPath resolves immediately when an imperative verb
// co-occurs with exactly one candidate, or picks the longest candidate
// when several overlap (the longer hint is the more specific match).
type actionWordFastPath struct{}

func (actionWordFastPath) Name() string { return "action-word" }

func (actionWordFastPath) Resolve(_ context.Context, utterance string, candidates []string) (string, Outcome) {
	low := strings.ToLower(utterance)
	imperative := false
	for _, w := range actionWords {
		if strings.HasPrefix(low, w+" ") || strings.Contains(low, " "+w+" ") {
			imperative = true
			break
		}
	}
	if !imperative {
		return "", Deferred
	}
	best := ""
	for _, c := range candidates {
		if len(Normalize(c)) > len(Normalize(best)) {
			best = c
		}
	}
	if best == "" {
		return "", Deferred
	}
	return best, Resolved
}

// modelPick asks the generator to disambiguate. The answer must match
// one of the offered options exactly after normalization; anything
// else, including transport errors, resolves to no intent.
type modelPick struct {
	gen model.Provider
}

func (*modelPick) Name() string { return "model-pick" }

const pickSystemPrompt = "Eres un clasificador. Responde solo una de las opciones exacta o 'none'."

func (m *modelPick) Resolve(ctx context.Context, utterance string, candidates []string) (string, Outcome) {
	prompt := fmt.Sprintf("Opciones: %s\nUsuario: %s\nResponde solo una de las opciones exacta o 'none'.",
		strings.Join(candidates, ", "), utterance)

	answer, err := m.gen.Generate(ctx, prompt, pickSystemPrompt)
	if err != nil {
		slog.Warn("intent disambiguation failed", "err", err)
		return "", NoIntent
	}

	norm := Normalize(answer)
	if norm == "" || norm == "none" || norm == "ninguna" || norm == "ninguno" {
		return "", NoIntent
	}
	for _, c := range candidates {
		if Normalize(c) == norm {
			return c, Resolved
		}
	}
	// The model produced something off-list. Fail closed.
	return "", NoIntent
}
