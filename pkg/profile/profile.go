// Package profile owns the user profile: the fixed personal-data schema,
// the ordered onboarding question list, and the completeness check that
// decides whether the pipeline runs onboarding at startup. All mutations
// are persisted immediately through the backing store.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Ranojay1/LocalAssistant/pkg/domain"
	"github.com/Ranojay1/LocalAssistant/pkg/store"
)

// Questions is the fixed onboarding sequence, asked in order for each
// still-empty field.
var Questions = []domain.OnboardingQuestion{
	{Field: "name", Prompt: "¿Cómo te llamas?"},
	{Field: "age", Prompt: "¿Cuántos años tienes?"},
	{Field: "occupation", Prompt: "¿A qué te dedicas?"},
	{Field: "location", Prompt: "¿Dónde vives?"},
	{Field: "interests", Prompt: "¿Cuáles son tus intereses? Di varios separados por comas."},
	{Field: "preferences", Prompt: "¿Tienes alguna preferencia que deba recordar?"},
}

// Store holds the in-memory profile and writes every change through to the
// backing ProfileStore. It is mutated only from the pipeline goroutine;
// Snapshot exists for read-only access from other goroutines.
type Store struct {
	persist store.ProfileStore

	mu   sync.RWMutex // guards data; the server reads while the pipeline mutates
	data domain.Profile
}

// New loads the profile from the backing store, starting from an empty
// profile when none has been saved yet.
func New(ctx context.Context, persist store.ProfileStore) (*Store, error) {
	s := &Store{persist: persist}
	p, err := persist.LoadProfile(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.data = domain.Profile{Preferences: map[string]string{}}
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	default:
		s.data = *p
		if s.data.Preferences == nil {
			s.data.Preferences = map[string]string{}
		}
	}
	return s, nil
}

// IsComplete reports whether every profile field has been filled in.
func (s *Store) IsComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.Name != "" &&
		s.data.Age != "" &&
		s.data.Occupation != "" &&
		s.data.Location != "" &&
		len(s.data.Interests) > 0 &&
		len(s.data.Preferences) > 0
}

// NextQuestion returns the first onboarding question whose field is still
// empty, or false when all fields are filled.
func (s *Store) NextQuestion() (domain.OnboardingQuestion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, q := range Questions {
		if s.fieldEmpty(q.Field) {
			return q, true
		}
	}
	return domain.OnboardingQuestion{}, false
}

// Answered reports whether a question field already holds a value.
func (s *Store) Answered(field string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.fieldEmpty(field)
}

func (s *Store) fieldEmpty(field string) bool {
	switch field {
	case "name":
		return s.data.Name == ""
	case "age":
		return s.data.Age == ""
	case "occupation":
		return s.data.Occupation == ""
	case "location":
		return s.data.Location == ""
	case "interests":
		return len(s.data.Interests) == 0
	case "preferences":
		return len(s.data.Preferences) == 0
	}
	return false
}

// UpdateField sets a profile field from a spoken answer and persists.
// The interests answer is split on commas into a trimmed set; a preferences
// answer is stored verbatim under a single key.
func (s *Store) UpdateField(ctx context.Context, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value = strings.TrimSpace(value)
	switch field {
	case "name":
		s.data.Name = value
	case "age":
		s.data.Age = value
	case "occupation":
		s.data.Occupation = value
	case "location":
		s.data.Location = value
	case "interests":
		s.data.Interests = splitInterests(value)
	case "preferences":
		s.data.Preferences["general"] = value
	default:
		return fmt.Errorf("unknown profile field %q", field)
	}
	return s.save(ctx)
}

func splitInterests(value string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" && !seen[part] {
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}

// IncrementInteractions bumps the interaction counter and persists.
func (s *Store) IncrementInteractions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.InteractionCount++
	return s.save(ctx)
}

// Context renders the known profile fields as prompt context for the
// generator, one "Etiqueta: valor" line per filled field. Empty when
// nothing is known yet.
func (s *Store) Context() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var parts []string
	if s.data.Name != "" {
		parts = append(parts, "Usuario: "+s.data.Name)
	}
	if s.data.Age != "" {
		parts = append(parts, "Edad: "+s.data.Age)
	}
	if s.data.Occupation != "" {
		parts = append(parts, "Ocupación: "+s.data.Occupation)
	}
	if s.data.Location != "" {
		parts = append(parts, "Ubicación: "+s.data.Location)
	}
	if len(s.data.Interests) > 0 {
		parts = append(parts, "Intereses: "+strings.Join(s.data.Interests, ", "))
	}
	return strings.Join(parts, "\n")
}

// Snapshot returns a copy of the current profile for read-only use.
func (s *Store) Snapshot() domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.data
	p.Interests = append([]string(nil), s.data.Interests...)
	p.Preferences = make(map[string]string, len(s.data.Preferences))
	for k, v := range s.data.Preferences {
		p.Preferences[k] = v
	}
	return p
}

func (s *Store) save(ctx context.Context) error {
	if err := s.persist.SaveProfile(ctx, &s.data); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	return nil
}
