// Package searching decorates a model.Provider with two-pass web-search
// augmentation: when the first completion contains [SEARCH:query]
// directives, the queries are resolved and a second completion runs with
// the results as context.
package searching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ranojay1/LocalAssistant/pkg/directive"
	"github.com/Ranojay1/LocalAssistant/pkg/model"
)

// Searcher resolves one query to a text block of results.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Instruction is appended to the system prompt so the model knows the
// directive syntax.
const Instruction = "\n\nSi no conoces información actual o necesitas datos específicos, escribe [SEARCH:tu consulta aquí] y recibirás resultados de búsqueda."

// Provider wraps an inner provider with search augmentation.
type Provider struct {
	inner    model.Provider
	searcher Searcher
}

var _ model.Provider = (*Provider)(nil)

// New wraps inner with search resolution through searcher.
func New(inner model.Provider, searcher Searcher) *Provider {
	return &Provider{inner: inner, searcher: searcher}
}

// Name returns the inner provider's identifier.
func (p *Provider) Name() string { return p.inner.Name() }

// Generate runs the first pass, resolves any [SEARCH:...] directives, and
// when results came back regenerates with them as context. Search failures
// degrade to the first-pass reply.
func (p *Provider) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	systemPrompt += Instruction

	reply, err := p.inner.Generate(ctx, prompt, systemPrompt)
	if err != nil {
		return "", err
	}

	queries := directive.ExtractSearches(reply)
	if len(queries) == 0 {
		return reply, nil
	}
	slog.Info("search directives detected", "queries", queries)

	var blocks []string
	for _, q := range queries {
		result, err := p.searcher.Search(ctx, q)
		if err != nil {
			slog.Error("search failed", "query", q, "error", err)
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Búsqueda '%s':\n%s", q, result))
	}
	if len(blocks) == 0 {
		// Nothing resolved; strip the directives rather than speak them.
		return directive.StripSearches(reply), nil
	}

	enhanced := fmt.Sprintf(
		"Pregunta original: %s\n\nResultados de búsqueda:\n%s\n\nResponde basándote en esta información:",
		prompt, strings.Join(blocks, "\n\n"),
	)
	return p.inner.Generate(ctx, enhanced, systemPrompt)
}
