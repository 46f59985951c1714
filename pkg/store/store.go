package store

import (
	"context"
	"errors"

	"github.com/Ranojay1/LocalAssistant/pkg/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ProfileStore persists the single user profile. The profile package owns
// the in-memory copy; implementations only load and save it.
type ProfileStore interface {
	// LoadProfile retrieves the stored profile.
	// Returns ErrNotFound when no profile has been saved yet.
	LoadProfile(ctx context.Context) (*domain.Profile, error)

	// SaveProfile persists the profile, creating it if necessary.
	// Called write-through on every mutation; durability beats batching here.
	SaveProfile(ctx context.Context, p *domain.Profile) error
}

// TurnLog is the durable, append-only record of completed turns. The
// in-memory history window remains the prompt source; this log only
// survives restarts and feeds the inspection surfaces.
type TurnLog interface {
	// AppendTurn adds a completed turn. ID and Timestamp are set by the caller.
	AppendTurn(ctx context.Context, turn *domain.Turn) error

	// RecentTurns returns the most recent turns in chronological order.
	// If limit > 0, returns at most that many.
	RecentTurns(ctx context.Context, limit int) ([]domain.Turn, error)

	// Subscribe returns a channel that emits turn IDs as turns are appended.
	// Used by the websocket feed.
	Subscribe() <-chan string
}
