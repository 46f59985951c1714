package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Ranojay1/LocalAssistant/pkg/domain"
	"github.com/Ranojay1/LocalAssistant/pkg/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.LoadProfile(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("LoadProfile on empty store: err = %v, want ErrNotFound", err)
	}

	p := &domain.Profile{
		Name:        "Ana",
		Age:         "30",
		Occupation:  "ingeniera",
		Location:    "Madrid",
		Interests:   []string{"música", "ajedrez"},
		Preferences: map[string]string{"trato": "informal"},
	}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.LoadProfile(ctx)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got.Name != "Ana" || got.Location != "Madrid" {
		t.Errorf("profile = %+v, want Name=Ana Location=Madrid", got)
	}
	if len(got.Interests) != 2 || got.Interests[1] != "ajedrez" {
		t.Errorf("Interests = %v, want [música ajedrez]", got.Interests)
	}
	if got.Preferences["trato"] != "informal" {
		t.Errorf("Preferences = %v, want trato=informal", got.Preferences)
	}
	if got.LastUpdated.IsZero() {
		t.Error("LastUpdated not set on save")
	}

	// Saves are upserts on the single row.
	p.InteractionCount = 7
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile (update): %v", err)
	}
	got, err = s.LoadProfile(ctx)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if got.InteractionCount != 7 {
		t.Errorf("InteractionCount = %d, want 7", got.InteractionCount)
	}
}

func TestTurnLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, texts := range [][2]string{
		{"hola", "buenas"},
		{"abre discord", "Se ha abierto discord"},
		{"qué hora es", "Son las tres"},
	} {
		turn := &domain.Turn{
			ID:            uuid.New().String(),
			Timestamp:     base.Add(time.Duration(i) * time.Second),
			UserText:      texts[0],
			AssistantText: texts[1],
		}
		if err := s.AppendTurn(ctx, turn); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}

	turns, err := s.RecentTurns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
	// Chronological order, most recent two.
	if turns[0].UserText != "abre discord" || turns[1].UserText != "qué hora es" {
		t.Errorf("turns = [%q, %q], want [abre discord, qué hora es]",
			turns[0].UserText, turns[1].UserText)
	}
}

func TestTurnLogSubscribe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	updates := s.Subscribe()
	turn := &domain.Turn{ID: "t-1", Timestamp: time.Now().UTC(), UserText: "hola"}
	if err := s.AppendTurn(ctx, turn); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	select {
	case id := <-updates:
		if id != "t-1" {
			t.Errorf("subscribed id = %q, want %q", id, "t-1")
		}
	case <-time.After(time.Second):
		t.Fatal("no subscription notification within 1s")
	}
}
