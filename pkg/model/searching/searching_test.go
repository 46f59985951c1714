package searching

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedModel returns canned replies in order.
type scriptedModel struct {
	replies []string
	prompts []string
	systems []string
}

func (m *scriptedModel) Name() string { return "scripted" }

func (m *scriptedModel) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.systems = append(m.systems, systemPrompt)
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

type fakeSearcher struct {
	result string
	err    error
	asked  []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (string, error) {
	f.asked = append(f.asked, query)
	return f.result, f.err
}

func TestPassThroughWithoutDirectives(t *testing.T) {
	inner := &scriptedModel{replies: []string{"respuesta directa"}}
	s := &fakeSearcher{}
	p := New(inner, s)

	got, err := p.Generate(context.Background(), "hola", "sistema")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "respuesta directa" {
		t.Errorf("reply = %q, want %q", got, "respuesta directa")
	}
	if len(s.asked) != 0 {
		t.Errorf("searches run = %v, want none", s.asked)
	}
	// The search instruction is appended to the system prompt.
	if !strings.Contains(inner.systems[0], "[SEARCH:") {
		t.Error("search instruction missing from system prompt")
	}
}

func TestSecondPassWithResults(t *testing.T) {
	inner := &scriptedModel{replies: []string{
		"[SEARCH:qué es GitHub]",
		"GitHub es una plataforma de desarrollo.",
	}}
	s := &fakeSearcher{result: "GitHub: build software"}
	p := New(inner, s)

	got, err := p.Generate(context.Background(), "busca qué es GitHub", "sistema")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "GitHub es una plataforma de desarrollo." {
		t.Errorf("reply = %q", got)
	}
	if len(s.asked) != 1 || s.asked[0] != "qué es GitHub" {
		t.Errorf("searches = %v, want [qué es GitHub]", s.asked)
	}
	// Second pass carries the results and the original question.
	second := inner.prompts[1]
	if !strings.Contains(second, "GitHub: build software") || !strings.Contains(second, "busca qué es GitHub") {
		t.Errorf("second-pass prompt missing context: %q", second)
	}
}

func TestSearchFailureDegradesToCleanedReply(t *testing.T) {
	inner := &scriptedModel{replies: []string{"Veamos. [SEARCH:clima madrid]"}}
	s := &fakeSearcher{err: errors.New("offline")}
	p := New(inner, s)

	got, err := p.Generate(context.Background(), "clima", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Veamos." {
		t.Errorf("reply = %q, want directive stripped", got)
	}
	if len(inner.prompts) != 1 {
		t.Errorf("generator called %d times, want 1", len(inner.prompts))
	}
}
