package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Ranojay1/LocalAssistant/pkg/domain"
	"github.com/Ranojay1/LocalAssistant/pkg/store"
)

// Store implements ProfileStore and TurnLog using SQLite.
type Store struct {
	db          *sql.DB
	subscribers []chan string
	mu          sync.RWMutex
}

// Verify interface compliance at compile time.
var _ store.ProfileStore = (*Store)(nil)
var _ store.TurnLog = (*Store)(nil)

// New opens (or creates) a SQLite database at the given path and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL DEFAULT '',
		age TEXT NOT NULL DEFAULT '',
		occupation TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		interests TEXT NOT NULL DEFAULT '',
		preferences TEXT NOT NULL DEFAULT '{}',
		interaction_count INTEGER NOT NULL DEFAULT 0,
		last_updated DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS turns (
		id TEXT PRIMARY KEY,
		user_text TEXT NOT NULL DEFAULT '',
		assistant_text TEXT NOT NULL DEFAULT '',
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_turns_timestamp ON turns(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --- ProfileStore ---

func (s *Store) LoadProfile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	var interests, preferences string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, age, occupation, location, interests, preferences, interaction_count, last_updated
		 FROM profile WHERE id = 1`,
	).Scan(&p.Name, &p.Age, &p.Occupation, &p.Location, &interests, &preferences, &p.InteractionCount, &p.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if interests != "" {
		p.Interests = strings.Split(interests, "\x1f")
	}
	p.Preferences = map[string]string{}
	if err := json.Unmarshal([]byte(preferences), &p.Preferences); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p *domain.Profile) error {
	p.LastUpdated = time.Now().UTC()

	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profile (id, name, age, occupation, location, interests, preferences, interaction_count, last_updated)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			age = excluded.age,
			occupation = excluded.occupation,
			location = excluded.location,
			interests = excluded.interests,
			preferences = excluded.preferences,
			interaction_count = excluded.interaction_count,
			last_updated = excluded.last_updated`,
		p.Name, p.Age, p.Occupation, p.Location,
		strings.Join(p.Interests, "\x1f"), string(prefs),
		p.InteractionCount, p.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// --- TurnLog ---

func (s *Store) AppendTurn(ctx context.Context, turn *domain.Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, user_text, assistant_text, timestamp) VALUES (?, ?, ?, ?)`,
		turn.ID, turn.UserText, turn.AssistantText, turn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	s.notify(turn.ID)
	return nil
}

func (s *Store) RecentTurns(ctx context.Context, limit int) ([]domain.Turn, error) {
	query := `SELECT id, user_text, assistant_text, timestamp FROM turns ORDER BY timestamp DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		if err := rows.Scan(&t.ID, &t.UserText, &t.AssistantText, &t.Timestamp); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Flip to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *Store) Subscribe() <-chan string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan string, 16)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *Store) notify(id string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- id:
		default: // slow subscriber, drop
		}
	}
}
