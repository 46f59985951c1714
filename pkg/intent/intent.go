// Package intent decides whether an utterance names an executable,
// allow-listed action or should fall through to open generation. The
// cascade is an explicit ordered strategy list: deterministic heuristics
// run first, the model only sees genuinely ambiguous phrasing, and every
// failure mode resolves to "no intent" — never to an unauthorized action.
package intent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Ranojay1/LocalAssistant/pkg/model"
)

// Outcome is the three-valued result of one strategy.
type Outcome int

const (
	// Deferred passes the decision to the next strategy.
	Deferred Outcome = iota
	// Resolved names an allow-listed hint to execute.
	Resolved
	// NoIntent terminates the cascade: the utterance is not a command.
	NoIntent
)

// Strategy examines an utterance against the candidate hints.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, utterance string, candidates []string) (hint string, outcome Outcome)
}

// Arbitrator runs the strategy cascade.
type Arbitrator struct {
	strategies []Strategy
}

// New builds the standard cascade. gen may be nil, in which case the
// model-assisted step is skipped and ambiguity resolves to no intent.
func New(gen model.Provider) *Arbitrator {
	strategies := []Strategy{
		questionVeto{},
		actionWordFastPath{},
	}
	if gen != nil {
		strategies = append(strategies, &modelPick{gen: gen})
	}
	return &Arbitrator{strategies: strategies}
}

// Classify returns the resolved hint, or ok=false when the utterance
// should fall through to open generation. hints is the live allow-list
// read this turn; it is never cached.
func (a *Arbitrator) Classify(ctx context.Context, utterance string, hints []string) (string, bool) {
	if len(hints) == 0 {
		return "", false
	}

	normText := Normalize(utterance)
	candidates := candidateHints(normText, hints)
	if len(candidates) == 0 {
		return "", false
	}

	for _, s := range a.strategies {
		hint, outcome := s.Resolve(ctx, utterance, candidates)
		switch outcome {
		case Resolved:
			slog.Debug("intent resolved", "strategy", s.Name(), "hint", hint)
			return hint, true
		case NoIntent:
			slog.Debug("intent vetoed", "strategy", s.Name())
			return "", false
		}
	}
	return "", false
}

// candidateHints keeps the hints whose normalized form appears in the
// normalized utterance.
func candidateHints(normText string, hints []string) []string {
	var candidates []string
	for _, h := range hints {
		if strings.Contains(normText, Normalize(h)) {
			candidates = append(candidates, h)
		}
	}
	return candidates
}

// leadingArticles are stripped once from the front of normalized text.
var leadingArticles = []string{"el ", "la ", "los ", "las ", "al ", "del "}

// Normalize lower-cases, strips one leading Spanish article, and trims
// trailing punctuation and whitespace.
func Normalize(text string) string {
	clean := strings.Trim(strings.ToLower(text), ".,!?¿¡ ")
	for _, art := range leadingArticles {
		if rest, ok := strings.CutPrefix(clean, art); ok {
			clean = rest
			break
		}
	}
	return strings.Trim(clean, ".,!?¿¡ ")
}
