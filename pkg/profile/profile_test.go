package profile

import (
	"context"
	"testing"

	"github.com/Ranojay1/LocalAssistant/pkg/domain"
	"github.com/Ranojay1/LocalAssistant/pkg/store"
)

// memStore is an in-memory ProfileStore for testing.
type memStore struct {
	saved *domain.Profile
	calls int
}

func (m *memStore) LoadProfile(ctx context.Context) (*domain.Profile, error) {
	if m.saved == nil {
		return nil, store.ErrNotFound
	}
	p := *m.saved
	return &p, nil
}

func (m *memStore) SaveProfile(ctx context.Context, p *domain.Profile) error {
	cp := *p
	m.saved = &cp
	m.calls++
	return nil
}

func newStore(t *testing.T, persist store.ProfileStore) *Store {
	t.Helper()
	s, err := New(context.Background(), persist)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestCompleteness(t *testing.T) {
	s := newStore(t, &memStore{})
	ctx := context.Background()

	if s.IsComplete() {
		t.Fatal("empty profile reported complete")
	}

	fields := map[string]string{
		"name":        "Ana",
		"age":         "30",
		"occupation":  "ingeniera",
		"location":    "Madrid",
		"interests":   "música, ajedrez",
		"preferences": "trato informal",
	}
	for field, value := range fields {
		if err := s.UpdateField(ctx, field, value); err != nil {
			t.Fatalf("UpdateField(%s): %v", field, err)
		}
	}
	if !s.IsComplete() {
		t.Error("fully populated profile reported incomplete")
	}
}

func TestNextQuestionOrder(t *testing.T) {
	s := newStore(t, &memStore{})
	ctx := context.Background()

	q, ok := s.NextQuestion()
	if !ok || q.Field != "name" {
		t.Fatalf("first question = %+v ok=%v, want field name", q, ok)
	}

	if err := s.UpdateField(ctx, "name", "Ana"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	q, ok = s.NextQuestion()
	if !ok || q.Field != "age" {
		t.Errorf("second question = %+v ok=%v, want field age", q, ok)
	}
}

func TestInterestsSplit(t *testing.T) {
	ms := &memStore{}
	s := newStore(t, ms)
	ctx := context.Background()

	if err := s.UpdateField(ctx, "interests", " música, ajedrez ,, música "); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	got := s.Snapshot().Interests
	want := []string{"música", "ajedrez"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Interests = %v, want %v", got, want)
	}
}

func TestWriteThrough(t *testing.T) {
	ms := &memStore{}
	s := newStore(t, ms)
	ctx := context.Background()

	if err := s.UpdateField(ctx, "name", "Ana"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if ms.calls != 1 {
		t.Errorf("persist calls after UpdateField = %d, want 1", ms.calls)
	}
	if err := s.IncrementInteractions(ctx); err != nil {
		t.Fatalf("IncrementInteractions: %v", err)
	}
	if ms.calls != 2 {
		t.Errorf("persist calls after IncrementInteractions = %d, want 2", ms.calls)
	}
	if ms.saved.InteractionCount != 1 {
		t.Errorf("persisted InteractionCount = %d, want 1", ms.saved.InteractionCount)
	}
}

func TestReloadFromStore(t *testing.T) {
	ms := &memStore{}
	s := newStore(t, ms)
	ctx := context.Background()
	if err := s.UpdateField(ctx, "name", "Ana"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	// A second store over the same persistence sees the saved data.
	s2 := newStore(t, ms)
	if got := s2.Snapshot().Name; got != "Ana" {
		t.Errorf("reloaded Name = %q, want %q", got, "Ana")
	}
}

func TestContext(t *testing.T) {
	s := newStore(t, &memStore{})
	ctx := context.Background()

	if got := s.Context(); got != "" {
		t.Errorf("Context on empty profile = %q, want empty", got)
	}

	s.UpdateField(ctx, "name", "Ana")
	s.UpdateField(ctx, "location", "Madrid")

	want := "Usuario: Ana\nUbicación: Madrid"
	if got := s.Context(); got != want {
		t.Errorf("Context = %q, want %q", got, want)
	}
}
